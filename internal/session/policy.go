package session

import "github.com/SAP-F-2025/practice-engine/internal/models"

// Policy holds per-variant submission rules.
type Policy struct {
	// AllowLateSubmit lets a session submit after its timer expired.
	AllowLateSubmit bool `json:"allow_late_submit"`
}

func DefaultPolicy() Policy {
	return Policy{AllowLateSubmit: true}
}

// Policies maps variants to their policy. Variants not listed use
// DefaultPolicy.
type Policies map[models.ExerciseType]Policy

func (p Policies) For(t models.ExerciseType) Policy {
	if policy, ok := p[t]; ok {
		return policy
	}
	return DefaultPolicy()
}

// DisallowLateSubmit returns policies that forbid late submission for the
// given variants.
func DisallowLateSubmit(types ...models.ExerciseType) Policies {
	p := make(Policies, len(types))
	for _, t := range types {
		p[t] = Policy{AllowLateSubmit: false}
	}
	return p
}
