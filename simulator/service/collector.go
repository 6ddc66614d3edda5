package service

import (
	"github.com/Gthulhu/fleetsim/simulator/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const metricNamespace = "fleetsim"

// FleetCollector exports the simulated fleet on every scrape.
type FleetCollector struct {
	engine *Engine

	podCPU      *prometheus.Desc
	podMemory   *prometheus.Desc
	podLatency  *prometheus.Desc
	podReplicas *prometheus.Desc
	podStatus   *prometheus.Desc

	totalCPU    *prometheus.Desc
	totalMemory *prometheus.Desc
	avgLatency  *prometheus.Desc
	activePods  *prometheus.Desc
	errorRate   *prometheus.Desc
	envLoad     *prometheus.Desc

	commands *prometheus.CounterVec
}

func NewFleetCollector(instanceID string) *FleetCollector {
	constLabels := prometheus.Labels{"instance_id": instanceID}
	podLabels := []string{"pod_id", "pod_name", "environment"}
	return &FleetCollector{
		podCPU: prometheus.NewDesc(prometheus.BuildFQName(metricNamespace, "pod", "cpu_usage_percent"),
			"CPU usage of a simulated pod.", podLabels, constLabels),
		podMemory: prometheus.NewDesc(prometheus.BuildFQName(metricNamespace, "pod", "memory_usage_mb"),
			"Memory usage of a simulated pod.", podLabels, constLabels),
		podLatency: prometheus.NewDesc(prometheus.BuildFQName(metricNamespace, "pod", "latency_ms"),
			"Latency of a simulated pod.", podLabels, constLabels),
		podReplicas: prometheus.NewDesc(prometheus.BuildFQName(metricNamespace, "pod", "replicas"),
			"Replica count of a simulated pod.", podLabels, constLabels),
		podStatus: prometheus.NewDesc(prometheus.BuildFQName(metricNamespace, "pod", "status"),
			"1 for the current status of a simulated pod.", append(podLabels, "status"), constLabels),
		totalCPU: prometheus.NewDesc(prometheus.BuildFQName(metricNamespace, "system", "cpu_usage_percent"),
			"Mean CPU usage across the fleet.", nil, constLabels),
		totalMemory: prometheus.NewDesc(prometheus.BuildFQName(metricNamespace, "system", "memory_usage_mb"),
			"Summed memory usage across the fleet.", nil, constLabels),
		avgLatency: prometheus.NewDesc(prometheus.BuildFQName(metricNamespace, "system", "latency_ms"),
			"Mean latency across the fleet.", nil, constLabels),
		activePods: prometheus.NewDesc(prometheus.BuildFQName(metricNamespace, "system", "active_pods"),
			"Number of pods in the fleet.", nil, constLabels),
		errorRate: prometheus.NewDesc(prometheus.BuildFQName(metricNamespace, "system", "error_rate_percent"),
			"Share of ERROR entries in the recent log window.", nil, constLabels),
		envLoad: prometheus.NewDesc(prometheus.BuildFQName(metricNamespace, "environment", "load_percent"),
			"Mean CPU usage per environment.", []string{"environment"}, constLabels),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricNamespace,
			Name:        "commands_total",
			Help:        "Commands handled by the simulator, by outcome.",
			ConstLabels: constLabels,
		}, []string{"command", "result"}),
	}
}

func (c *FleetCollector) ObserveCommand(command string, result string) {
	c.commands.WithLabelValues(command, result).Inc()
}

func (c *FleetCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.podCPU
	ch <- c.podMemory
	ch <- c.podLatency
	ch <- c.podReplicas
	ch <- c.podStatus
	ch <- c.totalCPU
	ch <- c.totalMemory
	ch <- c.avgLatency
	ch <- c.activePods
	ch <- c.errorRate
	ch <- c.envLoad
	c.commands.Describe(ch)
}

func (c *FleetCollector) Collect(ch chan<- prometheus.Metric) {
	c.commands.Collect(ch)
	if c.engine == nil {
		return
	}

	pods, metrics := c.engine.Snapshot()
	for _, pod := range pods {
		labels := []string{pod.ID, pod.Name, string(pod.Environment)}
		ch <- prometheus.MustNewConstMetric(c.podCPU, prometheus.GaugeValue, float64(pod.CPUUsage), labels...)
		ch <- prometheus.MustNewConstMetric(c.podMemory, prometheus.GaugeValue, float64(pod.MemoryUsage), labels...)
		ch <- prometheus.MustNewConstMetric(c.podLatency, prometheus.GaugeValue, pod.Latency, labels...)
		ch <- prometheus.MustNewConstMetric(c.podReplicas, prometheus.GaugeValue, float64(pod.Replicas), labels...)
		ch <- prometheus.MustNewConstMetric(c.podStatus, prometheus.GaugeValue, 1, append(labels, string(pod.Status))...)
	}

	ch <- prometheus.MustNewConstMetric(c.totalCPU, prometheus.GaugeValue, metrics.TotalCPU)
	ch <- prometheus.MustNewConstMetric(c.totalMemory, prometheus.GaugeValue, float64(metrics.TotalMemory))
	ch <- prometheus.MustNewConstMetric(c.avgLatency, prometheus.GaugeValue, metrics.AvgLatency)
	ch <- prometheus.MustNewConstMetric(c.activePods, prometheus.GaugeValue, float64(metrics.ActivePods))
	ch <- prometheus.MustNewConstMetric(c.errorRate, prometheus.GaugeValue, metrics.ErrorRate)
	ch <- prometheus.MustNewConstMetric(c.envLoad, prometheus.GaugeValue, metrics.OnPremLoad, string(domain.EnvironmentOnPrem))
	ch <- prometheus.MustNewConstMetric(c.envLoad, prometheus.GaugeValue, metrics.CloudLoad, string(domain.EnvironmentCloud))
}
