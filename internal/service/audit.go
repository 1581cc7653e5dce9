package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chapelhq/backoffice-go/internal/core"
	"github.com/chapelhq/backoffice-go/internal/data"
	domainaudit "github.com/chapelhq/backoffice-go/internal/domain/audit"
	domainguard "github.com/chapelhq/backoffice-go/internal/domain/guard"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	apperrors "github.com/chapelhq/backoffice-go/internal/errors"
	obserrors "github.com/chapelhq/backoffice-go/internal/observability/errors"
	"github.com/chapelhq/backoffice-go/internal/observability/notify"
	"github.com/chapelhq/backoffice-go/internal/observability/statsd"
	"github.com/chapelhq/backoffice-go/internal/service/opsalert"
	jmespath "github.com/jmespath-community/go-jmespath"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// defaultAuditWriteTimeout bounds each detached audit insert.
const defaultAuditWriteTimeout = 5 * time.Second

// auditAlertTimeout bounds operator alert delivery for a dropped entry.
const auditAlertTimeout = 10 * time.Second

// AuditServiceOptions groups dependencies for AuditService.
type AuditServiceOptions struct {
	Repo         core.AuditLogRepository // Required: append-only audit store
	TimeProvider data.TimeProvider       // Optional: defaults to real time
	Logger       *slog.Logger            // Optional: structured logger
	Metrics      statsd.Sink             // Optional: metrics sink (StatsD-compatible)
	Alerts       *opsalert.Service       // Optional: operator alert fan-out
	Evaluator    JMESPathEvaluator       // Optional: defaults to go-jmespath
	WriteTimeout time.Duration           // Optional: per-insert bound, defaults to 5s
}

// AuditService turns recorder entries into stored audit rows and serves the
// query surface. Writes are fire-and-forget: the business mutation never
// waits on, or fails because of, the trail.
type AuditService struct {
	repo         core.AuditLogRepository
	timeProvider data.TimeProvider
	logger       *slog.Logger
	metrics      statsd.Sink
	alerts       *opsalert.Service
	jems         JMESPathEvaluator
	writeTimeout time.Duration

	wg           sync.WaitGroup
	disabledOnce sync.Once
}

var _ domainguard.Recorder = (*AuditService)(nil)

// NewAuditService constructs a new AuditService.
func NewAuditService(opts AuditServiceOptions) *AuditService {
	timeProvider := opts.TimeProvider
	if timeProvider == nil {
		timeProvider = &data.RealTimeProvider{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}

	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultAuditWriteTimeout
	}

	return &AuditService{
		repo:         opts.Repo,
		timeProvider: timeProvider,
		logger:       logger,
		metrics:      opts.Metrics,
		alerts:       opts.Alerts,
		jems:         jems,
		writeTimeout: writeTimeout,
	}
}

// Record validates, diffs, and enqueues one audit entry. It never reports
// failure to the caller: a trail that cannot be written is logged and
// counted, and the triggering mutation proceeds.
func (s *AuditService) Record(ctx context.Context, entry domainaudit.Entry) {
	if err := entry.Validate(); err != nil {
		s.logger.WarnContext(ctx, "dropping invalid audit entry", "action", entry.Action, "error", err)
		s.countFailure("invalid", err)
		return
	}

	if !s.repo.Enabled() {
		// Writer was disabled at startup (missing audit_log table).
		s.countFailure("disabled", nil)
		s.alertDisabled()
		return
	}

	row, err := s.buildRow(entry)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to serialize audit entry",
			"action", entry.Action, "table", entry.TableName, "error", err)
		s.countFailure("serialize", err)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// The request context ends with the response; the write must not.
		writeCtx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
		defer cancel()

		if _, insertErr := s.repo.Insert(writeCtx, row); insertErr != nil {
			s.logger.Error("failed to persist audit entry",
				"action", row.Action,
				"table", row.TableName,
				"actor", row.ActorSubjectID,
				"error", insertErr)
			s.countFailure("insert", insertErr)
			s.alertWriteFailure(row, insertErr)
		}
	}()
}

// Close waits for in-flight audit writes to finish. Call during shutdown
// after the HTTP server has drained, and in tests before asserting on the
// store.
func (s *AuditService) Close() {
	s.wg.Wait()
}

// Enabled reports whether the backing writer persists entries.
func (s *AuditService) Enabled() bool {
	return s.repo.Enabled()
}

// WriterMode reports the insert shape pinned at startup, for the health
// surface.
func (s *AuditService) WriterMode() string {
	return s.repo.Mode()
}

// List returns audit entries matching the filters, newest first. SQL-side
// filters narrow the set; the optional JMESPath expression then runs over
// each remaining entry's {old, new} snapshot document.
func (s *AuditService) List(ctx context.Context, opts model.AuditListOptions) ([]*model.AuditEntry, error) {
	expr := strings.TrimSpace(opts.Expression)
	if expr != "" {
		if err := s.jems.Validate(expr); err != nil {
			return nil, apperrors.ValidationField("expression", "Filter expression is not valid JMESPath: "+err.Error())
		}
	}
	opts.Limit, opts.Offset = clampPage(opts.Limit, opts.Offset)

	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		if errors.Is(err, data.ErrAuditLogDisabled) {
			return nil, apperrors.StoreUnavailable(err, "The audit log is not available on this deployment.")
		}
		return nil, fmt.Errorf("list audit entries: %w", apperrors.MapDBError(err))
	}

	if expr == "" {
		return entries, nil
	}
	return s.filterByExpression(ctx, expr, entries)
}

// Count reports the total number of stored audit entries.
func (s *AuditService) Count(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count audit entries: %w", apperrors.MapDBError(err))
	}
	return count, nil
}

// buildRow serializes a recorder entry into its stored shape.
func (s *AuditService) buildRow(entry domainaudit.Entry) (*model.AuditEntry, error) {
	diff, err := domainaudit.ComputeFieldDiff(entry.Old, entry.New)
	if err != nil {
		return nil, err
	}
	diffRaw, err := domainaudit.MarshalDiff(diff)
	if err != nil {
		return nil, err
	}
	oldRaw, err := domainaudit.MarshalSnapshot(entry.Old)
	if err != nil {
		return nil, err
	}
	newRaw, err := domainaudit.MarshalSnapshot(entry.New)
	if err != nil {
		return nil, err
	}
	metaRaw, err := marshalRequestMetadata(entry)
	if err != nil {
		return nil, err
	}

	row := &model.AuditEntry{
		Action:          entry.Action,
		TableName:       entry.TableName,
		ActorSubjectID:  entry.Actor,
		OldSnapshot:     oldRaw,
		NewSnapshot:     newRaw,
		FieldDiff:       diffRaw,
		RequestMetadata: metaRaw,
		OccurredAt:      s.timeProvider.Now(),
	}
	if entry.RecordID != "" {
		row.RecordID = &entry.RecordID
	}
	return row, nil
}

// marshalRequestMetadata folds per-action Extra detail under the "extra" key
// of the client metadata document. Both absent marshals to SQL NULL.
func marshalRequestMetadata(entry domainaudit.Entry) (json.RawMessage, error) {
	meta := entry.RequestMetadata
	if len(entry.Extra) > 0 {
		merged := make(map[string]any, len(meta)+1)
		for k, v := range meta {
			merged[k] = v
		}
		merged["extra"] = entry.Extra
		meta = merged
	}
	if meta == nil {
		return nil, nil
	}

	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal request metadata: %w", err)
	}
	return raw, nil
}

func (s *AuditService) filterByExpression(
	ctx context.Context,
	expr string,
	entries []*model.AuditEntry,
) ([]*model.AuditEntry, error) {
	filtered := make([]*model.AuditEntry, 0, len(entries))
	for _, entry := range entries {
		doc, err := snapshotDocument(entry)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping audit entry with unreadable snapshots",
				"id", entry.ID, "error", err)
			continue
		}

		res, err := s.jems.Evaluate(expr, doc)
		if err != nil {
			return nil, apperrors.ValidationField("expression", "Filter expression failed to evaluate: "+err.Error())
		}
		if isTruthy(res) {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}

// snapshotDocument is what the expression filter sees for one entry.
func snapshotDocument(entry *model.AuditEntry) (map[string]any, error) {
	doc := map[string]any{"old": nil, "new": nil}
	if len(entry.OldSnapshot) > 0 {
		var oldDoc any
		if err := json.Unmarshal(entry.OldSnapshot, &oldDoc); err != nil {
			return nil, fmt.Errorf("decode old snapshot: %w", err)
		}
		doc["old"] = oldDoc
	}
	if len(entry.NewSnapshot) > 0 {
		var newDoc any
		if err := json.Unmarshal(entry.NewSnapshot, &newDoc); err != nil {
			return nil, fmt.Errorf("decode new snapshot: %w", err)
		}
		doc["new"] = newDoc
	}
	return doc, nil
}

// isTruthy applies JMESPath truthiness: null, false, empty strings, and
// empty collections all filter the entry out.
func isTruthy(v any) bool {
	switch tv := v.(type) {
	case nil:
		return false
	case bool:
		return tv
	case string:
		return tv != ""
	case []any:
		return len(tv) > 0
	case map[string]any:
		return len(tv) > 0
	default:
		return true
	}
}

func (s *AuditService) countFailure(reason string, err error) {
	if s.metrics == nil {
		return
	}
	tags := map[string]string{"reason": reason}
	if err != nil {
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
	}
	s.metrics.Count("audit.write_failure", 1, tags)
}

// alertWriteFailure pages operators about a dropped trail entry. The write
// context is spent by the time the insert fails, so delivery gets its own
// bound.
func (s *AuditService) alertWriteFailure(row *model.AuditEntry, err error) {
	if s.alerts == nil || !s.alerts.Enabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), auditAlertTimeout)
	defer cancel()

	s.alerts.Notify(ctx, notify.OpsAlertPayload{
		Kind:       notify.KindAuditWriteFailure,
		Source:     "audit",
		Subject:    row.TableName,
		Action:     row.Action,
		Error:      err.Error(),
		ErrorClass: obserrors.Classify(err),
		Metadata:   map[string]string{"actor": row.ActorSubjectID},
	})
}

// alertDisabled raises one warning per process when entries start dropping
// because the writer was pinned off at startup.
func (s *AuditService) alertDisabled() {
	if s.alerts == nil || !s.alerts.Enabled() {
		return
	}

	s.disabledOnce.Do(func() {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), auditAlertTimeout)
			defer cancel()

			s.alerts.Notify(ctx, notify.OpsAlertPayload{
				Kind:     notify.KindAuditDisabled,
				Source:   "audit",
				Subject:  "audit_log",
				Severity: notify.SeverityWarning,
				Error:    "audit writer disabled; entries are being dropped",
			})
		}()
	})
}
