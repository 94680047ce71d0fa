package events

import (
	"encoding/json"
	"time"
)

const (
	TypePipelineStarted  = "pipeline_started"
	TypePipelineFinished = "pipeline_finished"
	TypePostingsIngested = "postings_ingested"
	TypeSignalRecorded   = "signal_recorded"
	TypeReportComposed   = "report_composed"
	TypeCompanyUpdated   = "company_updated"
)

// Version of the event payloads.
const Version = 1

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Publisher receives serialized events. *Hub is the live one.
type Publisher interface {
	Publish(evt string)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(string) {}

func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}

// Emit builds and publishes one event at the current Version.
func Emit(p Publisher, reqID, typ string, data any) {
	if p == nil {
		return
	}
	p.Publish(MakeEvent(reqID, typ, Version, data))
}
