package service

import (
	"github.com/deppfellow/musician-api/internal/lib/job"
	"github.com/deppfellow/musician-api/internal/musician"
	"github.com/deppfellow/musician-api/internal/repository"
	"github.com/deppfellow/musician-api/internal/server"
)

type Services struct {
	Auth      *AuthService
	Job       *job.JobService
	Musicians *MusicianService
	Validator musician.Validator
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var publisher ChangePublisher
	if s.Job != nil {
		publisher = s.Job
	}

	return &Services{
		Auth:      NewAuthService(s),
		Job:       s.Job,
		Musicians: NewMusicianService(repos.Musician, publisher, s.Logger),
		Validator: musician.NewSchemaValidator(),
	}, nil
}
