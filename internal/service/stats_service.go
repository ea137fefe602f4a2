package service

import (
	"context"

	"secure-file-share/internal/model"
)

// ActivityCounter is the injected live-activity collaborator; the
// stats tracker satisfies it.
type ActivityCounter interface {
	ActiveUsers() int
}

type StatsService struct {
	files    FileStore
	activity ActivityCounter
}

func NewStatsService(files FileStore, activity ActivityCounter) *StatsService {
	return &StatsService{files: files, activity: activity}
}

func (s *StatsService) Live(ctx context.Context) (model.StatsData, error) {
	total, err := s.files.Count(ctx)
	if err != nil {
		return model.StatsData{}, err
	}

	return model.StatsData{
		TotalFiles:  total,
		ActiveUsers: s.activity.ActiveUsers(),
	}, nil
}
