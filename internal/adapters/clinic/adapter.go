// Package clinic imports lab results from a partner clinic's SQL Server
// database. The clinic identifies patients by email; rows whose email matches
// a registered account are stored as imported test results. Rows are deduped
// by a hash of the clinic's own result ID, so repeated polls are safe.
package clinic

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server driver

	"github.com/lineage-health/platform/internal/auth"
	"github.com/lineage-health/platform/internal/results"
	"github.com/lineage-health/platform/internal/shared/config"
	"github.com/lineage-health/platform/internal/shared/errors"
	"github.com/lineage-health/platform/internal/shared/events"
	"github.com/lineage-health/platform/internal/shared/metrics"
	"github.com/lineage-health/platform/internal/shared/types"
)

// labRow is one lab result row as the clinic exports it
type labRow struct {
	SourceID    string
	Email       string
	TestName    string
	Value       string
	Unit        string
	RefRange    string
	CollectedAt time.Time
}

// Adapter polls the clinic database and imports new lab results
type Adapter struct {
	db          *sql.DB
	cfg         config.ClinicConfig
	resultsRepo *results.Repository
	accounts    *auth.Repository
	bus         *events.Bus

	running  bool
	mu       sync.RWMutex
	cancel   context.CancelFunc
	lastPoll time.Time
	wg       sync.WaitGroup
}

// New creates a clinic adapter. Start must be called before it imports anything.
func New(cfg config.ClinicConfig, resultsRepo *results.Repository, accounts *auth.Repository, bus *events.Bus) *Adapter {
	return &Adapter{
		cfg:         cfg,
		resultsRepo: resultsRepo,
		accounts:    accounts,
		bus:         bus,
	}
}

// Start opens the clinic database connection and begins polling
func (a *Adapter) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("clinic adapter already running")
	}

	connStr := fmt.Sprintf("server=%s;port=%d;database=%s;user id=%s;password=%s",
		a.cfg.Host, a.cfg.Port, a.cfg.Database, a.cfg.User, a.cfg.Password)
	if a.cfg.SSLMode != "disable" {
		connStr += ";encrypt=true;TrustServerCertificate=true"
	}

	db, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return fmt.Errorf("failed to open clinic database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping clinic database: %w", err)
	}

	interval := time.Duration(a.cfg.PollIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	a.db = db
	a.running = true
	a.lastPoll = time.Now().Add(-interval)

	pollCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(1)
	go a.pollLoop(pollCtx, interval)

	return nil
}

// Stop stops polling and closes the connection
func (a *Adapter) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return nil
	}

	if a.cancel != nil {
		a.cancel()
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if a.db != nil {
		a.db.Close()
	}

	a.running = false
	return nil
}

// Health checks clinic database connectivity
func (a *Adapter) Health(ctx context.Context) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.running {
		return fmt.Errorf("clinic adapter not running")
	}
	return a.db.PingContext(ctx)
}

func (a *Adapter) pollLoop(ctx context.Context, interval time.Duration) {
	defer a.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.mu.Lock()
			since := a.lastPoll
			a.lastPoll = time.Now()
			a.mu.Unlock()

			if err := a.pollResults(ctx, since); err != nil {
				log.Printf("clinic import: %v", err)
			}
		}
	}
}

// pollResults imports lab results reported since the last poll
func (a *Adapter) pollResults(ctx context.Context, since time.Time) error {
	query := `
		SELECT
			l.LabResultID,
			p.Email,
			l.TestName,
			l.Value,
			l.Unit,
			l.ReferenceRange,
			l.CollectedAt
		FROM dbo.LabResults l
		INNER JOIN dbo.Patients p ON l.PatientID = p.PatientID
		WHERE l.ReportedAt > @since
		  AND p.Email IS NOT NULL
		ORDER BY l.ReportedAt ASC`

	rows, err := a.db.QueryContext(ctx, query, sql.Named("since", since))
	if err != nil {
		return fmt.Errorf("failed to query lab results: %w", err)
	}
	defer rows.Close()

	var imported int
	for rows.Next() {
		var row labRow
		var unit, refRange sql.NullString

		if err := rows.Scan(&row.SourceID, &row.Email, &row.TestName, &row.Value,
			&unit, &refRange, &row.CollectedAt); err != nil {
			log.Printf("clinic import: scan failed: %v", err)
			continue
		}
		row.Unit = unit.String
		row.RefRange = refRange.String

		if err := a.importRow(ctx, row); err != nil {
			log.Printf("clinic import: %v", err)
			continue
		}
		imported++
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if imported > 0 {
		log.Printf("clinic import: %d result(s) imported", imported)
	}
	return nil
}

func (a *Adapter) importRow(ctx context.Context, row labRow) error {
	account, err := a.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(row.Email)))
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == "NOT_FOUND" {
			// Clinic patient without an account here. Skip quietly.
			return nil
		}
		return err
	}

	// The clinic's result ID is stable, so its hash dedupes re-polls.
	sum := sha256.Sum256([]byte("clinic:" + row.SourceID))
	hash := hex.EncodeToString(sum[:])

	exists, err := a.resultsRepo.ExistsByHash(ctx, account.ID, hash)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	content := formatContent(row)
	res := &results.Result{
		ID:       types.NewID(),
		UserID:   account.ID,
		Type:     results.ResultTypeImported,
		Content:  &content,
		FileHash: &hash,
	}

	if err := a.resultsRepo.Create(ctx, res); err != nil {
		return err
	}

	metrics.RecordResultCreated(string(results.ResultTypeImported))
	metrics.RecordClinicImport()

	if a.bus != nil {
		event := events.NewEvent("result.imported", "clinic", map[string]any{
			"result_id": res.ID,
			"test_name": row.TestName,
		}).WithUser(account.ID)

		a.bus.Publish(ctx, event)
	}

	return nil
}

// formatContent renders a lab row as the text stored on the result
func formatContent(row labRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", row.TestName, row.Value)
	if row.Unit != "" {
		fmt.Fprintf(&b, " %s", row.Unit)
	}
	if row.RefRange != "" {
		fmt.Fprintf(&b, " (reference: %s)", row.RefRange)
	}
	fmt.Fprintf(&b, "\nCollected: %s", row.CollectedAt.Format("2006-01-02"))
	return b.String()
}
