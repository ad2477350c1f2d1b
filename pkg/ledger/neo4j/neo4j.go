package neo4j

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/barekit/orbitai/pkg/ledger/consts"
	"github.com/barekit/orbitai/pkg/ledger/record"
)

// Neo4jLedger stores events as nodes linked to their session and deployment:
// (Session)-[:RECORDED]->(DeploymentEvent)<-[:HAS_EVENT]-(Deployment).
type Neo4jLedger struct {
	driver neo4j.DriverWithContext
	dbName string
}

// New creates a new Neo4jLedger.
func New(ctx context.Context, uri, username, password, dbName string) (*Neo4jLedger, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach neo4j: %w", err)
	}

	return &Neo4jLedger{
		driver: driver,
		dbName: dbName,
	}, nil
}

var eventFields = []string{
	consts.ColKind, consts.ColSessionID, consts.ColDeploymentID, consts.ColConfigID,
	consts.ColChainName, consts.ColChainID, consts.ColParentChain, consts.ColStatus,
	consts.ColProgress, consts.ColError, consts.ColCreatedAt,
}

func (l *Neo4jLedger) Append(ctx context.Context, e record.Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	session := l.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: l.dbName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := fmt.Sprintf(`
		MERGE (s:%s {id: $session_id})
		CREATE (e:%s {
			kind: $kind, session_id: $session_id, deployment_id: $deployment_id,
			config_id: $config_id, chain_name: $chain_name, chain_id: $chain_id,
			parent_chain: $parent_chain, status: $status, progress: $progress,
			error: $error, created_at: $created_at
		})
		CREATE (s)-[:%s]->(e)
		RETURN e
		`, consts.LabelSession, consts.LabelEvent, consts.RelRecorded)

		params := map[string]any{
			consts.ColKind:         string(e.Kind),
			consts.ColSessionID:    e.SessionID,
			consts.ColDeploymentID: e.DeploymentID,
			consts.ColConfigID:     e.ConfigID,
			consts.ColChainName:    e.ChainName,
			consts.ColChainID:      e.ChainID,
			consts.ColParentChain:  e.ParentChain,
			consts.ColStatus:       e.Status,
			consts.ColProgress:     int64(e.Progress),
			consts.ColError:        e.Error,
			consts.ColCreatedAt:    e.CreatedAt,
		}
		if _, err := tx.Run(ctx, query, params); err != nil {
			return nil, err
		}

		if e.DeploymentID == "" {
			return nil, nil
		}
		link := fmt.Sprintf(`
		MATCH (e:%s {session_id: $session_id, deployment_id: $deployment_id, created_at: $created_at})
		MERGE (d:%s {id: $deployment_id})
		MERGE (d)-[:%s]->(e)
		`, consts.LabelEvent, consts.LabelDeployment, consts.RelHasEvent)
		_, err := tx.Run(ctx, link, params)
		return nil, err
	})
	return err
}

func (l *Neo4jLedger) History(ctx context.Context, sessionID string) ([]record.Event, error) {
	query := fmt.Sprintf(`
	MATCH (s:%s {id: $session_id})-[:%s]->(e:%s)
	RETURN %s
	ORDER BY e.%s ASC
	`, consts.LabelSession, consts.RelRecorded, consts.LabelEvent, returnFields(), consts.ColCreatedAt)
	return l.read(ctx, query, map[string]any{consts.ColSessionID: sessionID})
}

func (l *Neo4jLedger) Latest(ctx context.Context, deploymentID string) (*record.Event, error) {
	query := fmt.Sprintf(`
	MATCH (d:%s {id: $deployment_id})-[:%s]->(e:%s)
	RETURN %s
	ORDER BY e.%s DESC
	LIMIT 1
	`, consts.LabelDeployment, consts.RelHasEvent, consts.LabelEvent, returnFields(), consts.ColCreatedAt)
	events, err := l.read(ctx, query, map[string]any{consts.ColDeploymentID: deploymentID})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, record.ErrNotFound
	}
	return &events[0], nil
}

func (l *Neo4jLedger) Close(ctx context.Context) error {
	return l.driver.Close(ctx)
}

func (l *Neo4jLedger) read(ctx context.Context, query string, params map[string]any) ([]record.Event, error) {
	session := l.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: l.dbName})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		var events []record.Event
		for res.Next(ctx) {
			events = append(events, fromRecord(res.Record()))
		}
		return events, res.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]record.Event), nil
}

func returnFields() string {
	cols := make([]string, len(eventFields))
	for i, f := range eventFields {
		cols[i] = "e." + f + " AS " + f
	}
	return strings.Join(cols, ", ")
}

func fromRecord(r *neo4j.Record) record.Event {
	str := func(key string) string {
		v, _ := r.Get(key)
		s, _ := v.(string)
		return s
	}
	num := func(key string) int64 {
		v, _ := r.Get(key)
		n, _ := v.(int64)
		return n
	}
	created, _ := r.Get(consts.ColCreatedAt)
	ts, _ := created.(time.Time)

	return record.Event{
		Kind:         record.Kind(str(consts.ColKind)),
		SessionID:    str(consts.ColSessionID),
		DeploymentID: str(consts.ColDeploymentID),
		ConfigID:     str(consts.ColConfigID),
		ChainName:    str(consts.ColChainName),
		ChainID:      num(consts.ColChainID),
		ParentChain:  str(consts.ColParentChain),
		Status:       str(consts.ColStatus),
		Progress:     int(num(consts.ColProgress)),
		Error:        str(consts.ColError),
		CreatedAt:    ts,
	}
}
