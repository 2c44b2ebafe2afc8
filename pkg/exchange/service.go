package exchange

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/pkg/bundle"
	"github.com/Ramsey-B/mint/pkg/metrics"
	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/Ramsey-B/mint/pkg/reconcile"
	"github.com/Ramsey-B/mint/pkg/redis"
	"github.com/Ramsey-B/mint/pkg/tracing"
	"github.com/go-playground/validator/v10"
)

const phaseExport = "export"

var errInvalidBundle = errors.New("invalid bundle")

type Exporter interface {
	Export(ctx context.Context, workspaceID string, cocktailIDs []string) (*models.ExportBundle, error)
}

type Proposer interface {
	Propose(ctx context.Context, workspaceID string, b *models.ExportBundle) (*models.MappingProposal, error)
}

type Executor interface {
	Execute(ctx context.Context, workspaceID string, b *models.ExportBundle, mappings *models.ImportMappings) (*reconcile.Result, error)
}

type ShareStore interface {
	Save(ctx context.Context, b *models.ExportBundle) (*models.SharedExport, error)
	Load(ctx context.Context, shareID string) (*models.ExportBundle, error)
}

type Emitter interface {
	BundleExported(ctx context.Context, workspaceID string, b *models.ExportBundle, shared bool)
	BundleImported(ctx context.Context, workspaceID string, b *models.ExportBundle, result *reconcile.Result)
}

// Service runs the export and the three import phases for one workspace at a time.
// No state is kept between phases.
type Service struct {
	exporter Exporter
	proposer Proposer
	executor Executor
	shares   ShareStore
	emitter  Emitter
	validate *validator.Validate
	logger   ectologger.Logger
}

// NewService builds the service. shares may be nil when sharing is not configured.
func NewService(exporter Exporter, proposer Proposer, executor Executor, shares ShareStore, emitter Emitter, logger ectologger.Logger) *Service {
	return &Service{
		exporter: exporter,
		proposer: proposer,
		executor: executor,
		shares:   shares,
		emitter:  emitter,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

func (s *Service) Export(ctx context.Context, workspaceID string, req models.ExportRequest) (*models.ExportBundle, error) {
	ctx, span := tracing.StartSpan(ctx, "ExchangeService.Export")
	defer span.End()

	b, err := s.export(ctx, workspaceID, req)
	if err != nil {
		return nil, err
	}

	s.emitter.BundleExported(ctx, workspaceID, b, false)
	return b, nil
}

func (s *Service) export(ctx context.Context, workspaceID string, req models.ExportRequest) (b *models.ExportBundle, err error) {
	started := time.Now()
	defer func() { metrics.ObserveRequest(phaseExport, err, started) }()

	if vErr := s.validate.Struct(req); vErr != nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "cocktailIds must be a non-empty list of ids")
	}

	return s.exporter.Export(ctx, workspaceID, req.CocktailIDs)
}

// Share exports the recipes and stores the bundle for retrieval by share id.
func (s *Service) Share(ctx context.Context, workspaceID string, req models.ExportRequest) (*models.SharedExport, error) {
	ctx, span := tracing.StartSpan(ctx, "ExchangeService.Share")
	defer span.End()

	if s.shares == nil {
		return nil, httperror.NewHTTPError(http.StatusServiceUnavailable, "sharing exports is not configured")
	}

	b, err := s.export(ctx, workspaceID, req)
	if err != nil {
		return nil, err
	}

	shared, err := s.shares.Save(ctx, b)
	if err != nil {
		return nil, err
	}

	s.emitter.BundleExported(ctx, workspaceID, b, true)
	return shared, nil
}

func (s *Service) Shared(ctx context.Context, shareID string) (*models.ExportBundle, error) {
	ctx, span := tracing.StartSpan(ctx, "ExchangeService.Shared")
	defer span.End()

	if s.shares == nil {
		return nil, httperror.NewHTTPError(http.StatusServiceUnavailable, "sharing exports is not configured")
	}

	b, err := s.shares.Load(ctx, shareID)
	if errors.Is(err, redis.ErrShareNotFound) {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "shared export %s does not exist or has expired", shareID)
	}
	return b, err
}

// Import dispatches req to its phase. The returned value is the phase's response body.
func (s *Service) Import(ctx context.Context, workspaceID string, req models.ImportRequest) (any, error) {
	switch req.Phase {
	case models.PhaseValidate:
		return s.Validate(ctx, req.Data), nil
	case models.PhasePrepareMapping:
		return s.Prepare(ctx, workspaceID, req.Data)
	case models.PhaseExecute:
		return s.Execute(ctx, workspaceID, req.Data, req.Mappings)
	default:
		phases := []string{string(models.PhaseValidate), string(models.PhasePrepareMapping), string(models.PhaseExecute)}
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "unknown phase %q, expected one of %s", req.Phase, strings.Join(phases, ", "))
	}
}

func (s *Service) Validate(ctx context.Context, raw []byte) models.ValidationResult {
	ctx, span := tracing.StartSpan(ctx, "ExchangeService.Validate")
	defer span.End()

	started := time.Now()
	result := bundle.Validate(raw)

	var err error
	if !result.Valid {
		err = errInvalidBundle
		s.logger.WithContext(ctx).WithField("errors", result.Errors).Info("bundle failed validation")
	}
	metrics.ObserveRequest(string(models.PhaseValidate), err, started)

	return result
}

func (s *Service) Prepare(ctx context.Context, workspaceID string, raw []byte) (proposal *models.MappingProposal, err error) {
	ctx, span := tracing.StartSpan(ctx, "ExchangeService.Prepare")
	defer span.End()
	started := time.Now()
	defer func() { metrics.ObserveRequest(string(models.PhasePrepareMapping), err, started) }()

	b, err := bundle.Decode(raw)
	if err != nil {
		return nil, err
	}

	return s.proposer.Propose(ctx, workspaceID, b)
}

func (s *Service) Execute(ctx context.Context, workspaceID string, raw []byte, mappings *models.ImportMappings) (result *reconcile.Result, err error) {
	ctx, span := tracing.StartSpan(ctx, "ExchangeService.Execute")
	defer span.End()
	started := time.Now()
	defer func() { metrics.ObserveRequest(string(models.PhaseExecute), err, started) }()

	b, err := bundle.Decode(raw)
	if err != nil {
		return nil, err
	}

	result, err = s.executor.Execute(ctx, workspaceID, b, mappings)
	if err != nil {
		return nil, err
	}

	failed := map[string]int{}
	for _, itemErr := range result.Errors {
		failed[itemErr.Step]++
	}
	metrics.ObserveEntities(result.Created, result.Reused, result.Imported.Cocktails, result.Skipped, failed)

	s.emitter.BundleImported(ctx, workspaceID, b, result)
	return result, nil
}
