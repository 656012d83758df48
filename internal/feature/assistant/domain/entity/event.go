// Package entity はアシスタントの進行イベントを定義します。
package entity

import "time"

// Stage はアシスタントの処理段階です。
type Stage string

const (
	StageUnderstanding Stage = "understanding"
	StageRetrieving    Stage = "retrieving"
	StageComposing     Stage = "composing"
)

// Stages は処理段階の実行順です。
var Stages = []Stage{StageUnderstanding, StageRetrieving, StageComposing}

// EventType はイベントの種類です。
type EventType string

const (
	EventStage  EventType = "stage"
	EventAnswer EventType = "answer"
	EventError  EventType = "error"
)

// Status は段階イベントの状態です。
type Status string

const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Event はクライアントへ送る1件の通知です。
type Event struct {
	RunID   string    `json:"runId"`
	Type    EventType `json:"type"`
	Stage   Stage     `json:"stage,omitempty"`
	Status  Status    `json:"status,omitempty"`
	Message string    `json:"message,omitempty"`
	Data    any       `json:"data,omitempty"`
	At      time.Time `json:"at"`
}

// Terminal は実行の最後のイベントかを返します。
func (e Event) Terminal() bool {
	return e.Type == EventAnswer || e.Type == EventError
}
