package auth

// Service gates bot access by Telegram user ID.
type Service struct {
	allowed map[int64]struct{}
}

// New builds the allowlist from configured IDs. An empty allowlist admits
// everyone.
func New(allowedUsers []int64) *Service {
	s := &Service{allowed: make(map[int64]struct{})}
	for _, id := range allowedUsers {
		s.allowed[id] = struct{}{}
	}
	return s
}

func (s *Service) IsAllowed(userID int64) bool {
	if len(s.allowed) == 0 {
		return true
	}
	_, ok := s.allowed[userID]
	return ok
}
