package auth

import (
	"log/slog"
	"strings"
	"time"

	"svasthya/domain"
	"svasthya/repositories"
)

// Credential is a provisioned mentor account: the participant identity,
// the login email, the Argon2id password hash and the students assigned
// to this mentor.
type Credential struct {
	Mentor       domain.Participant
	Email        string
	PasswordHash string
	Students     []domain.Participant
}

// Service authenticates mentors against provisioned credentials and
// persists the resulting session so it survives restarts.
type Service struct {
	log     *slog.Logger
	repo    repositories.IAuthRepository
	secret  []byte
	ttl     time.Duration
	mentors map[string]Credential
}

func NewService(log *slog.Logger, repo repositories.IAuthRepository,
	secret []byte, ttl time.Duration, creds ...Credential) *Service {
	mentors := make(map[string]Credential, len(creds))
	for _, c := range creds {
		mentors[strings.ToLower(c.Email)] = c
	}
	return &Service{
		log:     log,
		repo:    repo,
		secret:  secret,
		ttl:     ttl,
		mentors: mentors,
	}
}

// Login verifies the submitted credentials and, on success, saves and
// returns the authenticated mentor state. Unknown emails, malformed
// requests and wrong passwords all come back as a plain false so the
// caller cannot probe which accounts exist.
func (s *Service) Login(email, password string) (repositories.MentorAuthState, bool) {
	if err := ValidateLogin(LoginRequest{Email: email, Password: password}); err != nil {
		return repositories.MentorAuthState{}, false
	}

	cred, ok := s.mentors[strings.ToLower(email)]
	if !ok {
		s.log.Warn("login attempt for unknown mentor", "email", email)
		return repositories.MentorAuthState{}, false
	}

	match, err := ComparePassword(password, cred.PasswordHash)
	if err != nil {
		s.log.Error("password comparison failed", "error", err)
		return repositories.MentorAuthState{}, false
	}
	if !match {
		return repositories.MentorAuthState{}, false
	}

	studentIDs := make([]string, len(cred.Students))
	for i, st := range cred.Students {
		studentIDs[i] = st.ID
	}
	token, err := GenerateToken(s.secret, cred.Mentor.ID, studentIDs, s.ttl)
	if err != nil {
		s.log.Error("token generation failed", "error", err)
		return repositories.MentorAuthState{}, false
	}

	state := repositories.MentorAuthState{
		Authenticated:    true,
		Mentor:           cred.Mentor,
		AssignedStudents: cred.Students,
		Token:            token,
		SavedAt:          time.Now(),
	}
	if err := s.repo.SaveState(state); err != nil {
		s.log.Error("failed to persist mentor session", "error", err)
		return repositories.MentorAuthState{}, false
	}

	s.log.Info("mentor logged in", "mentor", cred.Mentor.ID)
	return state, true
}

// Logout clears the persisted session. Logging out twice is not an error.
func (s *Service) Logout() error {
	return s.repo.ClearState()
}

// Restore loads a previously saved session at startup. A missing state,
// an expired token or a token signed with another key all yield
// (zero, false) rather than an error: the application simply starts
// logged out.
func (s *Service) Restore() (repositories.MentorAuthState, bool) {
	state, err := s.repo.LoadState()
	if err != nil {
		return repositories.MentorAuthState{}, false
	}
	if _, err := ValidateToken(s.secret, state.Token); err != nil {
		s.log.Info("discarding stale mentor session", "reason", err)
		_ = s.repo.ClearState()
		return repositories.MentorAuthState{}, false
	}
	return state, true
}
