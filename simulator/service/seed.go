package service

import (
	"fmt"
	"os"

	"github.com/Gthulhu/fleetsim/simulator/domain"
	"gopkg.in/yaml.v3"
)

// FleetSeed is the YAML document describing a starting fleet.
type FleetSeed struct {
	Pods []PodSeed `yaml:"pods"`
}

type PodSeed struct {
	Name        string             `yaml:"name"`
	Environment domain.Environment `yaml:"environment"`
	CPUUsage    int                `yaml:"cpu"`
	MemoryUsage int                `yaml:"memory"`
	Latency     float64            `yaml:"latency"`
	Replicas    int                `yaml:"replicas"`
}

// LoadFleetSeed reads and validates a fleet seed file.
func LoadFleetSeed(path string) ([]domain.Pod, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fleet seed: %w", err)
	}
	return ParseFleetSeed(data)
}

func ParseFleetSeed(data []byte) ([]domain.Pod, error) {
	var seed FleetSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("%w: fleet seed is not valid YAML: %v", domain.ErrInvalidArgument, err)
	}

	pods := make([]domain.Pod, 0, len(seed.Pods))
	for i, p := range seed.Pods {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: fleet seed pod %d has no name", domain.ErrInvalidArgument, i)
		}
		if !p.Environment.Valid() {
			return nil, fmt.Errorf("%w: fleet seed pod %s has environment %q", domain.ErrInvalidArgument, p.Name, p.Environment)
		}
		pods = append(pods, domain.Pod{
			Name:        p.Name,
			Environment: p.Environment,
			Status:      domain.PodStatusRunning,
			CPUUsage:    clampInt(p.CPUUsage, 0, 100),
			MemoryUsage: max(minMemoryMB, p.MemoryUsage),
			Latency:     max(0, p.Latency),
			Replicas:    max(1, p.Replicas),
		})
	}
	return pods, nil
}
