package metrics

import (
	"time"
)

type RedisOperation string

const (
	RedisOpSAdd     RedisOperation = "sadd"
	RedisOpSRem     RedisOperation = "srem"
	RedisOpSMembers RedisOperation = "smembers"
	RedisOpSCard    RedisOperation = "scard"
	RedisOpPing     RedisOperation = "ping"
)

type RedisTimer struct {
	service   string
	operation RedisOperation
	start     time.Time
}

func NewRedisTimer(service string, op RedisOperation) *RedisTimer {
	return &RedisTimer{
		service:   service,
		operation: op,
		start:     time.Now(),
	}
}

func (rt *RedisTimer) ObserveDuration() {
	RedisOperationDuration.WithLabelValues(rt.service, string(rt.operation)).Observe(time.Since(rt.start).Seconds())
}

func RecordRedisError(service string, op RedisOperation) {
	RedisErrors.WithLabelValues(service, string(op)).Inc()
}

func RecordKafkaMessageProduced(service, topic string, duration time.Duration) {
	KafkaMessagesProduced.WithLabelValues(service, topic).Inc()
	KafkaProduceDuration.WithLabelValues(service, topic).Observe(duration.Seconds())
}

func RecordKafkaError(service, topic, operation string) {
	KafkaErrors.WithLabelValues(service, topic, operation).Inc()
}

type DbOperation string

const (
	DbOpSelect DbOperation = "select"
	DbOpInsert DbOperation = "insert"
	DbOpUpdate DbOperation = "update"
	DbOpDelete DbOperation = "delete"
)

type DbTimer struct {
	service   string
	operation DbOperation
	table     string
	start     time.Time
}

func NewDbTimer(service string, op DbOperation, table string) *DbTimer {
	return &DbTimer{
		service:   service,
		operation: op,
		table:     table,
		start:     time.Now(),
	}
}

func (dt *DbTimer) ObserveDuration() {
	DbQueryDuration.WithLabelValues(dt.service, string(dt.operation), dt.table).Observe(time.Since(dt.start).Seconds())
}

func RecordDbError(service string, op DbOperation) {
	DbErrors.WithLabelValues(service, string(op)).Inc()
}

// RecordMediaUpload учитывает результат одной загрузки изображения
func RecordMediaUpload(size int, err error) {
	if err != nil {
		MediaUploads.WithLabelValues("failed").Inc()
		return
	}
	MediaUploads.WithLabelValues("success").Inc()
	MediaUploadBytes.Observe(float64(size))
}

func RecordRowCreated(entity string) {
	CatalogRowsCreated.WithLabelValues(entity).Inc()
}

func RecordCascadeOutcome(outcome string) {
	CascadeDeletes.WithLabelValues(outcome).Inc()
}
