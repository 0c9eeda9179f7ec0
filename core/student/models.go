package student

// Student is one configured learner. Loaded once per invocation, never mutated.
type Student struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Domain string `json:"domain" validate:"required,canvasdomain"`
	Token  string `json:"token" validate:"required,credential"`
	UserID string `json:"userId"`
}

// DisplayName falls back to the config key when no name is configured.
func (s Student) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Key
}
