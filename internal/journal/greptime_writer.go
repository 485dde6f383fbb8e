package journal

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
)

// DefaultTurnTable is the GreptimeDB table used when none is configured.
const DefaultTurnTable = "venue_turns"

const writeTimeout = 10 * time.Second

// greptimeClient is the part of the ingester client the writer needs.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes turn rows to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client    greptimeClient
	turnTable string
}

// NewGreptimeDBWriter connects to endpoint ("host" or "host:port") and
// writes into database.tableName. An empty tableName uses DefaultTurnTable.
func NewGreptimeDBWriter(endpoint, database, tableName string) (*GreptimeDBWriter, error) {
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if port > 0 {
		cfg = cfg.WithPort(port)
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	if tableName == "" {
		tableName = DefaultTurnTable
	}
	return &GreptimeDBWriter{client: client, turnTable: tableName}, nil
}

func splitEndpoint(endpoint string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		// no port given
		return endpoint, 0, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid greptime port %q: %w", portStr, err)
	}
	return host, port, nil
}

// WriteTurn inserts a single turn row.
func (w *GreptimeDBWriter) WriteTurn(row TurnRow) error {
	return w.WriteTurns([]TurnRow{row})
}

// WriteTurns inserts multiple turn rows in one request.
func (w *GreptimeDBWriter) WriteTurns(rows []TurnRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := w.turnsTable(rows)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if _, err := w.client.Write(ctx, tbl); err != nil {
		return fmt.Errorf("greptime write: %w", err)
	}
	return nil
}

func (w *GreptimeDBWriter) turnsTable(rows []TurnRow) (*table.Table, error) {
	tbl, err := table.New(w.turnTable)
	if err != nil {
		return nil, err
	}
	tags := []string{"session_id", "scene"}
	for _, name := range tags {
		if err := tbl.AddTagColumn(name, types.STRING); err != nil {
			return nil, err
		}
	}
	fields := []struct {
		name string
		typ  types.ColumnType
	}{
		{"turn_id", types.STRING},
		{"day", types.INT64},
		{"cash", types.INT64},
		{"reputation", types.INT64},
		{"staff_count", types.INT64},
		{"action", types.STRING},
		{"scene_text", types.STRING},
		{"image_prompt", types.STRING},
		{"image_url", types.STRING},
		{"model_used", types.STRING},
		{"fallback", types.BOOLEAN},
		{"failure_category", types.STRING},
	}
	for _, f := range fields {
		if err := tbl.AddFieldColumn(f.name, f.typ); err != nil {
			return nil, err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return nil, err
	}

	for _, r := range rows {
		err := tbl.AddRow(
			r.SessionID, r.Scene,
			r.TurnID, int64(r.Day), int64(r.Cash), int64(r.Reputation), int64(r.StaffCount),
			r.Action, r.SceneText, r.ImagePrompt, r.ImageURL, r.ModelUsed,
			r.Fallback, r.FailureCategory,
			r.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("add turn row: %w", err)
		}
	}
	return tbl, nil
}
