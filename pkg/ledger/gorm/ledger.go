package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/barekit/orbitai/pkg/ledger/consts"
	"github.com/barekit/orbitai/pkg/ledger/record"
)

// Ledger implements the deployment ledger using GORM.
type Ledger struct {
	db *gorm.DB
}

// EventModel represents the database schema for a ledger event.
type EventModel struct {
	gorm.Model
	Kind         string
	SessionID    string `gorm:"index"`
	DeploymentID string `gorm:"index"`
	ConfigID     string
	ChainName    string
	ChainID      int64
	ParentChain  string
	Status       string
	Progress     int
	Error        string
}

// TableName overrides the table name.
func (EventModel) TableName() string {
	return consts.TableNameEvents
}

// New creates a new Ledger and migrates its table.
func New(db *gorm.DB) (*Ledger, error) {
	if err := db.AutoMigrate(&EventModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Append inserts an event.
func (l *Ledger) Append(ctx context.Context, e record.Event) error {
	model := EventModel{
		Kind:         string(e.Kind),
		SessionID:    e.SessionID,
		DeploymentID: e.DeploymentID,
		ConfigID:     e.ConfigID,
		ChainName:    e.ChainName,
		ChainID:      e.ChainID,
		ParentChain:  e.ParentChain,
		Status:       e.Status,
		Progress:     e.Progress,
		Error:        e.Error,
	}
	if !e.CreatedAt.IsZero() {
		model.CreatedAt = e.CreatedAt
	}
	return l.db.WithContext(ctx).Create(&model).Error
}

// History loads a session's events, oldest first.
func (l *Ledger) History(ctx context.Context, sessionID string) ([]record.Event, error) {
	var models []EventModel
	err := l.db.WithContext(ctx).
		Where(consts.ColSessionID+" = ?", sessionID).
		Order(consts.ColCreatedAt + " asc").Order("id asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	events := make([]record.Event, len(models))
	for i, m := range models {
		events[i] = m.event()
	}
	return events, nil
}

// Latest loads the newest event for deploymentID.
func (l *Ledger) Latest(ctx context.Context, deploymentID string) (*record.Event, error) {
	var m EventModel
	err := l.db.WithContext(ctx).
		Where(consts.ColDeploymentID+" = ?", deploymentID).
		Order(consts.ColCreatedAt + " desc").Order("id desc").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, record.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e := m.event()
	return &e, nil
}

func (m EventModel) event() record.Event {
	return record.Event{
		Kind:         record.Kind(m.Kind),
		SessionID:    m.SessionID,
		DeploymentID: m.DeploymentID,
		ConfigID:     m.ConfigID,
		ChainName:    m.ChainName,
		ChainID:      m.ChainID,
		ParentChain:  m.ParentChain,
		Status:       m.Status,
		Progress:     m.Progress,
		Error:        m.Error,
		CreatedAt:    m.CreatedAt,
	}
}
