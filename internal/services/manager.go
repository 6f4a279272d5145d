package services

import (
	"time"

	"github.com/studyhall/session-service/internal/cache"
	"github.com/studyhall/session-service/internal/events"
	"github.com/studyhall/session-service/internal/repositories"
	"github.com/studyhall/session-service/internal/utils"
	"github.com/studyhall/session-service/internal/validator"
)

// ServiceManager aggregates the service interfaces handed to the handlers
type ServiceManager interface {
	Session() SessionService
	Export() ExportService
}

type serviceManager struct {
	sessionService SessionService
	exportService  ExportService
}

func NewServiceManager(
	repo repositories.Repository,
	publisher events.EventPublisher,
	snapshots cache.SnapshotCache,
	logger utils.Logger,
	v *validator.Validator,
	snapshotTTL time.Duration,
) ServiceManager {
	return &serviceManager{
		sessionService: NewSessionService(repo, publisher, snapshots, logger, v, snapshotTTL),
		exportService:  NewExportService(repo, logger),
	}
}

func (m *serviceManager) Session() SessionService {
	return m.sessionService
}

func (m *serviceManager) Export() ExportService {
	return m.exportService
}
