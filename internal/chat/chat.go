// internal/chat/chat.go

// Package chat is the interactive presentation boundary: it reads utterances,
// hands them to the tracker one signal at a time, and renders every outcome
// as a message. Failures never end the session.
package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"mcp-health-log/internal/faults"
	"mcp-health-log/internal/tracker"
)

type Session struct {
	tracker *tracker.Tracker
	in      *bufio.Scanner
	out     io.Writer
	timeout time.Duration
}

func NewSession(trk *tracker.Tracker, in io.Reader, out io.Writer, timeout time.Duration) *Session {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Session{
		tracker: trk,
		in:      bufio.NewScanner(in),
		out:     out,
		timeout: timeout,
	}
}

func (s *Session) say(format string, args ...interface{}) {
	fmt.Fprintf(s.out, "bot: "+format+"\n", args...)
}

func (s *Session) ask(prompt string) (string, bool) {
	s.say("%s", prompt)
	fmt.Fprint(s.out, "you: ")
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Session) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// Run walks one full check-in: greeting, mood, glucose, food, and an
// optional meal plan.
func (s *Session) Run(ctx context.Context) error {
	userID, ok := s.ask("Hi! Please enter your user ID to begin.")
	if !ok {
		return nil
	}
	if userID == "" {
		s.say("I need a user ID to log anything. Bye for now.")
		return nil
	}

	s.greet(ctx, userID)

	if input, ok := s.ask("How are you feeling today?"); ok {
		s.logMood(ctx, userID, input)
	} else {
		return nil
	}

	if input, ok := s.ask("Please enter your latest glucose reading (mg/dL)."); ok {
		s.logGlucose(ctx, userID, input)
	} else {
		return nil
	}

	if input, ok := s.ask("What did you eat today?"); ok {
		s.logFood(ctx, userID, input)
	} else {
		return nil
	}

	answer, ok := s.ask("Would you like a personalized meal plan? (yes/no)")
	if ok && strings.EqualFold(answer, "yes") {
		s.mealPlan(ctx, userID)
	}

	return s.in.Err()
}

func (s *Session) greet(ctx context.Context, userID string) {
	callCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	greeting, err := s.tracker.Greet(callCtx, userID)
	switch {
	case err == nil:
		s.say("%s", greeting)
	case faults.Is(err, faults.CodeNotFound):
		s.say("Sorry, I couldn't find that user ID. Please check and try again.")
	default:
		s.say("I couldn't come up with a greeting, but let's carry on.")
	}
}

func (s *Session) logMood(ctx context.Context, userID, input string) {
	callCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	log, err := s.tracker.LogMood(callCtx, userID, input)
	if err != nil {
		s.say("I couldn't log your mood this time (%s).", reason(err))
		return
	}
	s.say("Mood '%s' logged.", log.Mood)
}

func (s *Session) logGlucose(ctx context.Context, userID, input string) {
	callCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	reading, err := s.tracker.LogGlucose(callCtx, userID, input)
	if err != nil {
		s.say("I couldn't log that glucose reading (%s).", reason(err))
		return
	}
	s.say("Glucose reading of %d mg/dL logged. Within healthy range: %v.", reading.Reading, reading.IsValid)
}

func (s *Session) logFood(ctx context.Context, userID, input string) {
	callCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	entry, err := s.tracker.LogFood(callCtx, userID, input)
	if err != nil {
		s.say("I couldn't log that meal (%s).", reason(err))
		return
	}
	if entry.Calories != nil {
		s.say("Food intake '%s' (%d kcal) logged.", entry.Description, *entry.Calories)
	} else {
		s.say("Food intake '%s' logged.", entry.Description)
	}
}

func (s *Session) mealPlan(ctx context.Context, userID string) {
	callCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	plan, err := s.tracker.MealPlan(callCtx, userID)
	if err != nil {
		s.say("I couldn't put a meal plan together this time (%s).", reason(err))
		return
	}

	s.say("Here's your adaptive meal plan:")
	for _, slot := range plan.Slots {
		fmt.Fprintf(s.out, "  - %s: %s\n", slot.Label, slot.Food)
	}
}

// reason renders a short, user-facing cause for a failed operation.
func reason(err error) string {
	switch {
	case faults.Is(err, faults.CodeParse):
		return "I couldn't make sense of the extracted value"
	case faults.Is(err, faults.CodeExtraction):
		return "the extraction service didn't answer properly"
	case faults.Is(err, faults.CodeWrite):
		return "saving it failed"
	default:
		return "something unexpected went wrong"
	}
}
