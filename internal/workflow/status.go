package workflow

import (
	"fmt"
	"sort"
)

// TaskStatusInfo is the ephemeral status view computed for a single
// query. It is rebuilt on every call and never persisted.
type TaskStatusInfo struct {
	// Current is the display label the task currently carries.
	Current string `json:"current"`
	// Available is the ordered list of display labels reachable from
	// Current according to the transitions graph.
	Available []string `json:"available"`
	// Recommended is the label the engine suggests moving to, or empty
	// when no recommendation applies.
	Recommended string `json:"recommended,omitempty"`
	// ShouldAutoProgress is always false in this view; eligibility for
	// automatic advancement is answered by StatusService.ShouldAutoProgress.
	ShouldAutoProgress bool `json:"should_auto_progress"`
}

// StatusService is the single source of truth for status semantics given
// a workflow Config. The label reverse index is built once at
// construction so every lookup afterwards is O(1).
type StatusService struct {
	cfg        *Config
	labelToKey map[string]string
}

// NewStatusService creates a StatusService for the given config. The
// config must already have passed Validate; the service never mutates it.
func NewStatusService(cfg *Config) *StatusService {
	idx := make(map[string]string, len(cfg.StatusMapping))
	for key, label := range cfg.StatusMapping {
		idx[label] = key
	}
	return &StatusService{cfg: cfg, labelToKey: idx}
}

// StatusKey resolves a display label to its internal key. It never
// fails: labels with no mapping resolve to the KeyUnknown sentinel,
// which callers must check explicitly.
func (s *StatusService) StatusKey(label string) string {
	if key, ok := s.labelToKey[label]; ok {
		return key
	}
	return KeyUnknown
}

// Label returns the display label for an internal key, or "" if the key
// has no mapping.
func (s *StatusService) Label(key string) string {
	return s.cfg.StatusMapping[key]
}

// TaskStatus computes the status view for a task currently at the given
// display label, with progress being its todo completion percentage.
// Unrecognized labels degrade gracefully to an empty Available list;
// destination keys without a mapping are silently dropped.
func (s *StatusService) TaskStatus(current string, progress int) (TaskStatusInfo, error) {
	key := s.StatusKey(current)

	var available []string
	for _, destKey := range s.cfg.Transitions[key] {
		if label, ok := s.cfg.StatusMapping[destKey]; ok {
			available = append(available, label)
		}
	}

	recommended, err := s.NextRecommendedStatus(current, progress)
	if err != nil {
		return TaskStatusInfo{}, err
	}

	return TaskStatusInfo{
		Current:            current,
		Available:          available,
		Recommended:        recommended,
		ShouldAutoProgress: false,
	}, nil
}

// ValidateTransition reports whether the transitions graph allows moving
// from one display label to another.
func (s *StatusService) ValidateTransition(from, to string) bool {
	fromKey := s.StatusKey(from)
	toKey := s.StatusKey(to)
	for _, destKey := range s.cfg.Transitions[fromKey] {
		if destKey == toKey {
			return true
		}
	}
	return false
}

// NextRecommendedStatus returns the display label the task should move
// to given its current label and todo completion percentage, or "" when
// no recommendation applies. All four canonical lifecycle keys must be
// present in the status mapping; a missing key is a configuration defect
// and fails the call immediately.
func (s *StatusService) NextRecommendedStatus(current string, progress int) (string, error) {
	if err := s.requireKeys(KeyNotStarted, KeyInProgress, KeyTest, KeyDone); err != nil {
		return "", err
	}

	key := s.StatusKey(current)
	allowed := s.cfg.Transitions[key]

	switch {
	case key == KeyNotStarted && progress > 0:
		if containsKey(allowed, KeyInProgress) {
			return s.cfg.StatusMapping[KeyInProgress], nil
		}
		return s.firstAllowedLabel(allowed), nil

	case key == KeyInProgress && progress >= 100:
		if containsKey(allowed, KeyTest) {
			return s.cfg.StatusMapping[KeyTest], nil
		}
		if containsKey(allowed, KeyDone) {
			return s.cfg.StatusMapping[KeyDone], nil
		}
		return s.firstAllowedLabel(allowed), nil

	case key == KeyTest && progress >= 100:
		if containsKey(allowed, KeyDone) {
			return s.cfg.StatusMapping[KeyDone], nil
		}
		return "", nil
	}

	return "", nil
}

// ShouldAutoProgress reports whether a task at the given display label is
// eligible for automatic advancement driven by todo completion. Only the
// notStarted and inProgress stages auto-advance; test and done always
// require an explicit transition.
func (s *StatusService) ShouldAutoProgress(current string) (bool, error) {
	if err := s.requireKeys(KeyNotStarted, KeyInProgress); err != nil {
		return false, err
	}
	key := s.StatusKey(current)
	return key == KeyNotStarted || key == KeyInProgress, nil
}

// NotStartedStatus returns the display label configured for the initial
// lifecycle stage.
func (s *StatusService) NotStartedStatus() (string, error) {
	if err := s.requireKeys(KeyNotStarted); err != nil {
		return "", err
	}
	return s.cfg.StatusMapping[KeyNotStarted], nil
}

// DefaultStatus returns the display label for the configured default
// status assigned to new tasks.
func (s *StatusService) DefaultStatus() (string, error) {
	label, ok := s.cfg.StatusMapping[s.cfg.DefaultStatus]
	if !ok {
		return "", fmt.Errorf("workflow config: default_status %q has no status_mapping entry", s.cfg.DefaultStatus)
	}
	return label, nil
}

// KnownLabels returns all display labels in the status mapping, in
// canonical lifecycle order first, then any custom keys.
func (s *StatusService) KnownLabels() []string {
	var labels []string
	for _, key := range []string{KeyNotStarted, KeyInProgress, KeyTest, KeyDone} {
		if label, ok := s.cfg.StatusMapping[key]; ok {
			labels = append(labels, label)
		}
	}
	var custom []string
	for key, label := range s.cfg.StatusMapping {
		switch key {
		case KeyNotStarted, KeyInProgress, KeyTest, KeyDone:
			continue
		}
		custom = append(custom, label)
	}
	sort.Strings(custom)
	return append(labels, custom...)
}

// requireKeys fails with a configuration error if any of the given
// internal keys is missing from the status mapping.
func (s *StatusService) requireKeys(keys ...string) error {
	for _, key := range keys {
		if _, ok := s.cfg.StatusMapping[key]; !ok {
			return fmt.Errorf("workflow config: required status key %q is missing from status_mapping", key)
		}
	}
	return nil
}

// firstAllowedLabel returns the label of the first destination key that
// has a mapping, or "" when none do.
func (s *StatusService) firstAllowedLabel(destKeys []string) string {
	for _, key := range destKeys {
		if label, ok := s.cfg.StatusMapping[key]; ok {
			return label
		}
	}
	return ""
}

func containsKey(keys []string, want string) bool {
	for _, k := range keys {
		if k == want {
			return true
		}
	}
	return false
}
