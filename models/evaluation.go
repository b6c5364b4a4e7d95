// models/evaluation.go
package models

import "time"

const EvaluationTable = "mds_evaluations"

// Evaluation 提交时顺带的满意度问卷，可选，跟提交同一个事务落库
type Evaluation struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string `gorm:"type:uuid;index;not null" json:"userId"`
	ActionType int    `gorm:"not null" json:"actionType"` // 1=领用 2=借用
	GroupID    string `gorm:"type:uuid;index;not null" json:"groupId"`

	Score      int    `gorm:"not null" json:"score"` // 1-5
	Suggestion string `gorm:"size:500" json:"suggestion,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Evaluation) TableName() string { return EvaluationTable }
