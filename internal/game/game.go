package game

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gridadventure/internal/debug"
	"gridadventure/internal/observability"
)

// Narrator produces the next assistant message for a transcript.
type Narrator interface {
	Send(ctx context.Context, transcript []Message) (Message, error)
}

type LocationLookup interface {
	Lookup(c Coordinate) (string, error)
}

type Saver interface {
	Save(record SessionRecord) (string, error)
}

// TurnRecorder receives every attempted narrator call, successful or not.
type TurnRecorder interface {
	RecordTurn(ctx context.Context, rec TurnRecord) error
}

type TurnRecord struct {
	SessionID string
	Position  Coordinate
	Location  string
	Input     string
	Reply     string
	Settings  ModelSettings
	Duration  time.Duration
	Err       error
}

// WorldPreferences are the optional answers collected when creating a new
// world.
type WorldPreferences struct {
	Setting     string
	Inhabitants string
	Goal        string
}

type TurnResult struct {
	// Input is the text sent as the user message, after direction
	// translation.
	Input             string
	Position          Coordinate
	Location          string
	PresenceAnnounced bool
	Reply             Message

	Skipped  bool
	Exited   bool
	SavePath string
}

const presenceFormat = "Present at the current location is %s"

type Game struct {
	session   *Session
	narrator  Narrator
	locations LocationLookup
	saver     Saver
	settings  ModelSettings
	recorder  TurnRecorder
	debug     *debug.Logger
	sessionID string
	tracer    trace.Tracer
}

type Option func(*Game)

func WithRecorder(r TurnRecorder) Option {
	return func(g *Game) { g.recorder = r }
}

func WithDebugLogger(l *debug.Logger) Option {
	return func(g *Game) { g.debug = l }
}

func WithSessionID(id string) Option {
	return func(g *Game) { g.sessionID = id }
}

func New(narrator Narrator, locations LocationLookup, saver Saver, settings ModelSettings, opts ...Option) *Game {
	g := &Game{
		session:   NewSession(),
		narrator:  narrator,
		locations: locations,
		saver:     saver,
		settings:  settings,
		tracer:    otel.Tracer("game"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Game) Session() *Session {
	return g.session
}

func (g *Game) SessionID() string {
	return g.sessionID
}

// StartNew places the player at the origin of a fresh world, recording any
// world preferences as system messages first.
func (g *Game) StartNew(prefs *WorldPreferences) error {
	origin := Coordinate{}
	location, err := g.locations.Lookup(origin)
	if err != nil {
		return fmt.Errorf("failed to resolve starting location: %w", err)
	}

	if prefs != nil {
		g.session.AppendSystem("The scene looks like " + prefs.Setting)
		g.session.AppendSystem("The people/animals in the setting are " + prefs.Inhabitants)
		g.session.AppendSystem("The user wishes to resolve or achieve " + prefs.Goal)
	}
	g.session.place(origin, location)

	g.debug.Printf("New game at %s: %s", origin, location)
	return nil
}

// Resume appends a loaded continuation after the live preamble and restores
// the saved position and location.
func (g *Game) Resume(loaded *LoadedGame) {
	g.session.appendAll(loaded.Continuation)
	g.session.place(loaded.Position, loaded.Location)

	g.debug.Printf("Resumed %s at %s with %d messages", loaded.Name, loaded.Position, len(loaded.Continuation))
}

func (g *Game) Save() (string, error) {
	path, err := g.saver.Save(g.session.Record(g.settings))
	if err != nil {
		return "", err
	}
	g.debug.Printf("Saved session to %s", path)
	return path, nil
}

// Turn handles one line of player input. Exit saves without contacting the
// narrator. Any other command resolves the target location and calls the
// narrator; the session changes only if both succeed, so a failed turn can
// be retried with the same input.
func (g *Game) Turn(ctx context.Context, line string) (TurnResult, error) {
	current := g.session.Position()

	var input string
	target := current
	switch cmd := ParseCommand(line).(type) {
	case EmptyCommand:
		return TurnResult{Skipped: true}, nil
	case ExitCommand:
		path, err := g.Save()
		if err != nil {
			return TurnResult{}, err
		}
		return TurnResult{Exited: true, SavePath: path, Position: current, Location: g.session.Location()}, nil
	case MoveCommand:
		input = cmd.Sentence()
		target = current.Step(cmd.Direction)
	case FreeTextCommand:
		input = cmd.Text
	}

	if g.sessionID != "" {
		ctx = observability.WithSessionID(ctx, g.sessionID)
	}
	ctx, span := g.tracer.Start(ctx, "game.turn",
		trace.WithAttributes(observability.CreateLangfuseAttributes("turn", g.sessionID, "", nil)...),
		trace.WithAttributes(
			attribute.String("game.input", input),
			attribute.Int("game.x", target.X),
			attribute.Int("game.y", target.Y),
		),
	)
	defer span.End()

	location, err := g.locations.Lookup(target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "location lookup failed")
		return TurnResult{Input: input, Position: target}, err
	}

	pending := []Message{{Role: RoleUser, Content: input}}
	// Announced when the description is the same as last turn's.
	presence := !g.session.LocationChanged(location)
	if presence {
		pending = append(pending, Message{Role: RoleSystem, Content: fmt.Sprintf(presenceFormat, location)})
	}
	span.SetAttributes(
		attribute.String("game.location", location),
		attribute.Bool("game.presence_announced", presence),
	)

	request := append(g.session.Messages(), pending...)
	start := time.Now()
	reply, err := g.narrator.Send(ctx, request)
	g.record(ctx, TurnRecord{
		SessionID: g.sessionID,
		Position:  target,
		Location:  location,
		Input:     input,
		Reply:     reply.Content,
		Settings:  g.settings,
		Duration:  time.Since(start),
		Err:       err,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "narrator call failed")
		return TurnResult{Input: input, Position: target, Location: location}, err
	}
	if reply.Role == "" {
		reply.Role = RoleAssistant
	}

	g.session.appendAll(pending)
	g.session.AppendAssistant(reply)
	g.session.place(target, location)

	g.debug.Printf("Turn %q at %s (%s), presence=%v, transcript=%d", input, target, location, presence, g.session.Len())

	return TurnResult{
		Input:             input,
		Position:          target,
		Location:          location,
		PresenceAnnounced: presence,
		Reply:             reply,
	}, nil
}

func (g *Game) record(ctx context.Context, rec TurnRecord) {
	if g.recorder == nil {
		return
	}
	if err := g.recorder.RecordTurn(ctx, rec); err != nil {
		g.debug.Printf("Failed to log completion: %v", err)
	}
}
