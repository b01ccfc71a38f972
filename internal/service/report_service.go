package service

import (
	"context"
	"errors"
	"time"

	"github.com/raidroad/roadwatch/internal/cache"
	"github.com/raidroad/roadwatch/internal/journal"
	"github.com/raidroad/roadwatch/internal/models"
	"github.com/raidroad/roadwatch/internal/repository"
	"github.com/raidroad/roadwatch/internal/utils"
	"github.com/raidroad/roadwatch/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrReportNotFound     = errors.New("report not found")
	ErrNotReportOwner     = errors.New("not your report")
	ErrInvalidCoordinates = errors.New("coordinates out of range")
)

// ReportView is the listing representation of a report: the row joined with
// the author's trust level, vote counts and a local-time display string.
type ReportView struct {
	ID         uint64  `json:"id"`
	Username   string  `json:"username"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	TimeStr    string  `json:"time_str"`
	TrustLevel int     `json:"trust_level"`
	Likes      int64   `json:"likes"`
	GoneCount  int64   `json:"gone_count"`
}

// ReportService coordinates the report lifecycle: submission, listing,
// owner deletion. Staleness is never stored; it is derived at read time from
// the visibility window, so expired reports simply drop out of listings.
type ReportService struct {
	reportRepo *repository.ReportRepository
	listing    cache.ListingCache
	journal    *journal.Journal
	window     time.Duration
	displayLoc *time.Location
}

func NewReportService(
	reportRepo *repository.ReportRepository,
	listing cache.ListingCache,
	jrnl *journal.Journal,
	window time.Duration,
	displayUTCOffset int,
) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		listing:    listing,
		journal:    jrnl,
		window:     window,
		displayLoc: utils.DisplayLocation(displayUTCOffset),
	}
}

// Submit creates a report for username stamped with the current UTC instant.
func (s *ReportService) Submit(username string, lat, lon float64) (*models.Report, error) {
	// 1. Validate coordinates
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		logger.Log.Warn("Report submission with out-of-range coordinates",
			zap.String("username", username),
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
		)
		return nil, ErrInvalidCoordinates
	}

	// 2. Create the report
	report := &models.Report{
		Username:  username,
		Lat:       lat,
		Lon:       lon,
		Timestamp: time.Now().UTC(),
	}

	if err := s.reportRepo.Create(report); err != nil {
		logger.Log.Error("Failed to create report",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}

	// 3. Journal + cache invalidation (best effort, never fails the request)
	s.appendJournal(journal.Entry{
		Kind:     journal.KindReportCreated,
		Username: username,
		ReportID: report.ID,
	})
	s.invalidateListing()

	logger.Log.Info("Report created",
		zap.Uint64("report_id", report.ID),
		zap.String("username", username),
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
	)

	return report, nil
}

// ListActive returns the reports still inside the visibility window, newest
// first. A report exactly at the window boundary is still live.
func (s *ReportService) ListActive() ([]ReportView, error) {
	ctx := context.Background()

	// 1. Cache hit short-circuits the database entirely
	var cached []ReportView
	if s.listing != nil {
		hit, err := s.listing.Get(ctx, &cached)
		if err != nil {
			logger.Log.Warn("Listing cache read failed, falling through",
				zap.Error(err),
			)
		} else if hit {
			return cached, nil
		}
	}

	// 2. Read-time staleness filter: cutoff = now - window
	cutoff := time.Now().UTC().Add(-s.window)
	rows, err := s.reportRepo.ListLiveSince(cutoff)
	if err != nil {
		logger.Log.Error("Failed to list live reports",
			zap.Error(err),
		)
		return nil, err
	}

	// 3. Build views
	views := make([]ReportView, 0, len(rows))
	for _, row := range rows {
		views = append(views, ReportView{
			ID:         row.ID,
			Username:   row.Username,
			Lat:        row.Lat,
			Lon:        row.Lon,
			TimeStr:    utils.ClockString(row.Timestamp, s.displayLoc),
			TrustLevel: row.TrustLevel,
			Likes:      row.Likes,
			GoneCount:  row.GoneCount,
		})
	}

	if s.listing != nil {
		if err := s.listing.Set(ctx, views); err != nil {
			logger.Log.Warn("Listing cache write failed",
				zap.Error(err),
			)
		}
	}

	return views, nil
}

// Delete removes requester's own report and all votes on it. Stale reports
// stay deletable: aging out of the listing is a filter, not a deletion.
func (s *ReportService) Delete(reportID uint64, requester string) error {
	// 1. Existence and ownership checks before any mutation
	report, err := s.reportRepo.GetByID(reportID)
	if err != nil {
		logger.Log.Error("Failed to load report for delete",
			zap.Uint64("report_id", reportID),
			zap.Error(err),
		)
		return err
	}
	if report == nil {
		return ErrReportNotFound
	}
	if report.Username != requester {
		logger.Log.Warn("Delete rejected: not the owner",
			zap.Uint64("report_id", reportID),
			zap.String("owner", report.Username),
			zap.String("requester", requester),
		)
		return ErrNotReportOwner
	}

	// 2. Delete report and votes together
	if err := s.reportRepo.DeleteWithVotes(reportID); err != nil {
		logger.Log.Error("Failed to delete report",
			zap.Uint64("report_id", reportID),
			zap.Error(err),
		)
		return err
	}

	s.appendJournal(journal.Entry{
		Kind:     journal.KindReportDeleted,
		Username: requester,
		ReportID: reportID,
	})
	s.invalidateListing()

	logger.Log.Info("Report deleted",
		zap.Uint64("report_id", reportID),
		zap.String("username", requester),
	)

	return nil
}

func (s *ReportService) appendJournal(entry journal.Entry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Append(entry); err != nil {
		logger.Log.Warn("Journal append failed",
			zap.String("kind", entry.Kind),
			zap.Error(err),
		)
	}
}

func (s *ReportService) invalidateListing() {
	if s.listing == nil {
		return
	}
	if err := s.listing.Invalidate(context.Background()); err != nil {
		logger.Log.Warn("Listing cache invalidation failed",
			zap.Error(err),
		)
	}
}
