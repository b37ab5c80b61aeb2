package pipeline

import (
	"encoding/json"
	"sort"
	"strings"
)

// Sensor rejection reasons
const (
	SensorCorruptJSON   = "corrupt_json"
	SensorInvalidType   = "invalid_type"
	SensorStatusInvalid = "status_invalid"
)

// SensorReading is one clean sensor record.
type SensorReading struct {
	DeviceID    string  `json:"device_id"`
	TS          string  `json:"ts"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Battery     float64 `json:"battery"`
	Status      string  `json:"status"`
}

// ParsedSensor is the tagged outcome of validating one JSON-lines record.
type ParsedSensor struct {
	Reading  SensorReading
	Rejected bool
	Reason   string
}

// sensorPayload is the loose shape a line decodes into before validation.
// The closed SensorReading type is only produced once every check passes.
type sensorPayload struct {
	DeviceID    interface{} `json:"device_id"`
	TS          interface{} `json:"ts"`
	Temperature interface{} `json:"temperature"`
	Humidity    interface{} `json:"humidity"`
	Battery     interface{} `json:"battery"`
	Status      interface{} `json:"status"`
}

var sensorFields = []string{"device_id", "ts", "temperature", "humidity", "battery", "status"}

// ParseSensorLine validates one JSON-lines sensor record: required fields
// present, numeric fields actually numeric, temperature in -40..85,
// humidity and battery in 0..100, status one of OK/WARN/FAIL. Pure and
// total; a blank line is rejected as corrupt rather than skipped so line
// accounting stays exact.
func ParseSensorLine(text string) ParsedSensor {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ParsedSensor{Rejected: true, Reason: SensorCorruptJSON}
	}

	var payload sensorPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return ParsedSensor{Rejected: true, Reason: SensorCorruptJSON}
	}

	fields := map[string]interface{}{
		"device_id":   payload.DeviceID,
		"ts":          payload.TS,
		"temperature": payload.Temperature,
		"humidity":    payload.Humidity,
		"battery":     payload.Battery,
		"status":      payload.Status,
	}

	var missing []string
	for _, f := range sensorFields {
		if isMissing(fields[f]) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return ParsedSensor{Rejected: true, Reason: "missing:" + strings.Join(missing, ",")}
	}

	temp, tempOK := asNumber(payload.Temperature)
	hum, humOK := asNumber(payload.Humidity)
	bat, batOK := asNumber(payload.Battery)
	if !tempOK || !humOK || !batOK {
		return ParsedSensor{Rejected: true, Reason: SensorInvalidType}
	}

	if temp < -40 || temp > 85 {
		return ParsedSensor{Rejected: true, Reason: "temperature_range"}
	}
	if hum < 0 || hum > 100 {
		return ParsedSensor{Rejected: true, Reason: "humidity_range"}
	}
	if bat < 0 || bat > 100 {
		return ParsedSensor{Rejected: true, Reason: "battery_range"}
	}

	status, _ := payload.Status.(string)
	switch status {
	case "OK", "WARN", "FAIL":
	default:
		return ParsedSensor{Rejected: true, Reason: SensorStatusInvalid}
	}

	deviceID, _ := payload.DeviceID.(string)
	ts, _ := payload.TS.(string)

	return ParsedSensor{Reading: SensorReading{
		DeviceID:    deviceID,
		TS:          ts,
		Temperature: temp,
		Humidity:    hum,
		Battery:     bat,
		Status:      status,
	}}
}

func isMissing(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "", "nan", "null":
			return true
		}
	}
	return false
}

func asNumber(v interface{}) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

// SensorAggregate counts clean vs dirty records with a histogram of
// rejection reasons. ParsedLines tracks the clean records.
type SensorAggregate struct {
	CleanCount  int64            `json:"clean_count"`
	DirtyCount  int64            `json:"dirty_count"`
	Reasons     map[string]int64 `json:"reasons"`
	TotalLines  int64            `json:"total_lines"`
	ParsedLines int64            `json:"parsed_lines"`
}

// NewSensorAggregate returns an empty aggregate with the reason map allocated.
func NewSensorAggregate() *SensorAggregate {
	return &SensorAggregate{Reasons: make(map[string]int64)}
}

// AggregateSensorChunk validates one batch of JSON-lines records into a
// fresh partial aggregate.
func AggregateSensorChunk(chunk Chunk) *SensorAggregate {
	agg := NewSensorAggregate()
	agg.TotalLines = int64(len(chunk))

	for _, line := range chunk {
		p := ParseSensorLine(line.Text)
		if p.Rejected {
			agg.DirtyCount++
			agg.Reasons[p.Reason]++
			continue
		}
		agg.CleanCount++
		agg.ParsedLines++
	}
	return agg
}

// MergeSensors folds b into a and returns a.
func MergeSensors(a, b *SensorAggregate) *SensorAggregate {
	addCounts(a.Reasons, b.Reasons)
	a.CleanCount += b.CleanCount
	a.DirtyCount += b.DirtyCount
	a.TotalLines += b.TotalLines
	a.ParsedLines += b.ParsedLines
	return a
}
