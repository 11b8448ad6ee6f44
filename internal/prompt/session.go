package prompt

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/guillaumekey/yacht-calculate/internal/estimator"
	"github.com/guillaumekey/yacht-calculate/pkg/constants"
	"github.com/guillaumekey/yacht-calculate/pkg/validation"
)

const defaultMaxAttempts = 3

// Grouping characters users type in large amounts ("1 000 000", "1,000,000").
var groupingReplacer = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "_", "", ",", "")

// Session walks the user through schedule selection and the profile inputs.
type Session struct {
	driver      Driver
	validator   *validation.Validator
	maxAttempts int
}

// NewSession returns a session using driver.
func NewSession(driver Driver) *Session {
	return &Session{
		driver:      driver,
		validator:   validation.NewValidator(),
		maxAttempts: defaultMaxAttempts,
	}
}

// Collect asks for a schedule and a profile valid under it.
func (s *Session) Collect(ctx context.Context) (estimator.Schedule, estimator.Profile, error) {
	schedule, err := s.selectSchedule(ctx)
	if err != nil {
		return estimator.Schedule{}, estimator.Profile{}, err
	}

	profile := defaultProfile(schedule)
	limits := schedule.Limits

	profile.Value, err = s.askFloat(ctx, schedule, "value", InputConfig{
		Message: "Valeur du yacht (€)",
		Default: strconv.FormatFloat(profile.Value, 'f', -1, 64),
		Help:    fmt.Sprintf("Entre %.0f et %.0f", limits.MinValue, limits.MaxValue),
	})
	if err != nil {
		return schedule, profile, err
	}

	profile.Length, err = s.askFloat(ctx, schedule, "length", InputConfig{
		Message: "Longueur du yacht (mètres)",
		Default: strconv.FormatFloat(profile.Length, 'f', -1, 64),
		Help:    fmt.Sprintf("Entre %.0f et %.0f mètres", limits.MinLength, limits.MaxLength),
	})
	if err != nil {
		return schedule, profile, err
	}

	if limits.CrewInput {
		crew, err := s.askFloat(ctx, schedule, "crewMembers", InputConfig{
			Message: "Nombre de membres d'équipage",
			Default: strconv.Itoa(profile.CrewMembers),
			Help:    fmt.Sprintf("Entre %d et %d", limits.MinCrew, limits.MaxCrew),
		})
		if err != nil {
			return schedule, profile, err
		}
		profile.CrewMembers = int(crew)
	}

	return schedule, profile, s.validator.ValidateProfile(schedule, profile)
}

// Again asks whether to run another estimate.
func (s *Session) Again(ctx context.Context) (bool, error) {
	return s.driver.Confirm(ctx, ConfirmConfig{Message: "Nouvelle estimation ?", Default: false})
}

func (s *Session) selectSchedule(ctx context.Context) (estimator.Schedule, error) {
	schedules := estimator.Schedules()
	options := make([]string, len(schedules))
	defaultIndex := 0
	for i, schedule := range schedules {
		options[i] = schedule.Name + " - " + schedule.Description
		if schedule.Name == constants.DefaultSchedule {
			defaultIndex = i
		}
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      "Barème de calcul",
			Options:      options,
			DefaultIndex: defaultIndex,
		})
		if err != nil {
			return estimator.Schedule{}, err
		}
		if idx >= 0 && idx < len(schedules) {
			return schedules[idx], nil
		}
		_ = s.driver.Info(ctx, "Invalid schedule selection")
	}
	return estimator.Schedule{}, ErrTooManyAttempts
}

// askFloat prompts until the answer parses and passes the schedule limits
// for field. The driver may reject answers itself through cfg.Validator.
func (s *Session) askFloat(ctx context.Context, schedule estimator.Schedule, field string, cfg InputConfig) (float64, error) {
	check := func(answer string) (float64, error) {
		value, err := parseNumber(answer)
		if err != nil {
			return 0, err
		}
		if field == "crewMembers" && value != math.Trunc(value) {
			return 0, fmt.Errorf("must be a whole number")
		}
		return value, s.checkField(schedule, field, value)
	}
	cfg.Validator = func(answer string) error {
		_, err := check(answer)
		return err
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		answer, err := s.driver.Input(ctx, cfg)
		if err != nil {
			return 0, err
		}
		if strings.TrimSpace(answer) == "" {
			answer = cfg.Default
		}
		value, err := check(answer)
		if err == nil {
			return value, nil
		}
		_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", field, err))
	}
	return 0, ErrTooManyAttempts
}

// checkField validates one field by substituting it into the schedule
// defaults, which are always in range.
func (s *Session) checkField(schedule estimator.Schedule, field string, value float64) error {
	p := defaultProfile(schedule)
	switch field {
	case "value":
		p.Value = value
	case "length":
		p.Length = value
	case "crewMembers":
		if value > math.MaxInt32 || value < math.MinInt32 {
			return fmt.Errorf("out of range")
		}
		p.CrewMembers = int(value)
	}

	err := s.validator.ValidateProfile(schedule, p)
	var profileErr *validation.Error
	if errors.As(err, &profileErr) {
		if msg, ok := profileErr.Fields[field]; ok {
			return errors.New(msg)
		}
		return nil
	}
	return err
}

func defaultProfile(schedule estimator.Schedule) estimator.Profile {
	p := estimator.Profile{
		Value:  constants.DefaultYachtValue,
		Length: constants.DefaultYachtLength,
	}
	if schedule.Limits.CrewInput {
		p.CrewMembers = constants.DefaultCrewMembers
	}
	return p
}

// parseNumber accepts grouped amounts such as "1 000 000" or "1,000,000".
func parseNumber(answer string) (float64, error) {
	cleaned := groupingReplacer.Replace(strings.TrimSpace(answer))
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%q is not a number", answer)
	}
	return value, nil
}
