package simulation

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/MurilloYonamine/go-boid-study/pkg/geometry"
)

// Command types carried in the "type" field of a command struct.
const (
	CommandNavigate  = "navigate"
	CommandSpawnKind = "spawnKind"
	CommandIntruder  = "intruder"
	CommandDespawn   = "despawn"
	CommandTune      = "tune"
)

var (
	// ErrUnknownCommand is returned when a command has a type nobody handles.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrMalformedCommand is returned when a command misses a field or has one of the wrong type.
	ErrMalformedCommand = errors.New("malformed command")
)

// Command is a request from the outside (input, CLI) to change the world.
// Commands travel through the actor mailbox as google.protobuf.Struct.
type Command struct {
	Type string

	Target      geometry.Vector2D // navigate, spawnKind
	HasPosition bool              // spawnKind: false picks a random position
	Index       int               // spawnKind
	ID          string            // despawn
	Params      map[string]float64
}

func NavigateCommand(target geometry.Vector2D) Command {
	return Command{Type: CommandNavigate, Target: target}
}

// SpawnKindCommand spawns kind index at a random position in the spawn area.
func SpawnKindCommand(index int) Command {
	return Command{Type: CommandSpawnKind, Index: index}
}

// SpawnKindAtCommand spawns kind index at pos.
func SpawnKindAtCommand(index int, pos geometry.Vector2D) Command {
	return Command{Type: CommandSpawnKind, Index: index, Target: pos, HasPosition: true}
}

func IntruderCommand() Command {
	return Command{Type: CommandIntruder}
}

func DespawnCommand(id string) Command {
	return Command{Type: CommandDespawn, ID: id}
}

func TuneCommand(params map[string]float64) Command {
	return Command{Type: CommandTune, Params: params}
}

// Encode turns the command into its wire form.
func (c Command) Encode() (*structpb.Struct, error) {
	fields := map[string]interface{}{"type": c.Type}
	switch c.Type {
	case CommandNavigate:
		fields["x"], fields["y"] = c.Target.X, c.Target.Y
	case CommandSpawnKind:
		fields["index"] = c.Index
		if c.HasPosition {
			fields["x"], fields["y"] = c.Target.X, c.Target.Y
		}
	case CommandIntruder:
	case CommandDespawn:
		fields["id"] = c.ID
	case CommandTune:
		params := make(map[string]interface{}, len(c.Params))
		for k, v := range c.Params {
			params[k] = v
		}
		fields["params"] = params
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, c.Type)
	}
	return structpb.NewStruct(fields)
}

// DecodeCommand parses the wire form produced by Encode.
func DecodeCommand(s *structpb.Struct) (Command, error) {
	var c Command
	var err error
	if c.Type, err = stringField(s, "type"); err != nil {
		return c, err
	}

	switch c.Type {
	case CommandNavigate:
		c.Target, err = vectorField(s)
	case CommandSpawnKind:
		var idx float64
		if idx, err = numberField(s, "index"); err != nil {
			break
		}
		if idx != math.Trunc(idx) {
			err = fmt.Errorf("%w: index %g is not an integer", ErrMalformedCommand, idx)
			break
		}
		c.Index = int(idx)
		if _, ok := s.GetFields()["x"]; ok {
			c.Target, err = vectorField(s)
			c.HasPosition = err == nil
		}
	case CommandIntruder:
	case CommandDespawn:
		c.ID, err = stringField(s, "id")
	case CommandTune:
		c.Params, err = paramsField(s)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, c.Type)
	}
	return c, err
}

func stringField(s *structpb.Struct, key string) (string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrMalformedCommand, key)
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a string", ErrMalformedCommand, key)
	}
	return str.StringValue, nil
}

func numberField(s *structpb.Struct, key string) (float64, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %q", ErrMalformedCommand, key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a number", ErrMalformedCommand, key)
	}
	if math.IsNaN(n.NumberValue) || math.IsInf(n.NumberValue, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrMalformedCommand, key)
	}
	return n.NumberValue, nil
}

func vectorField(s *structpb.Struct) (geometry.Vector2D, error) {
	x, err := numberField(s, "x")
	if err != nil {
		return geometry.Zero, err
	}
	y, err := numberField(s, "y")
	if err != nil {
		return geometry.Zero, err
	}
	return geometry.Vector2D{X: x, Y: y}, nil
}

func paramsField(s *structpb.Struct) (map[string]float64, error) {
	v, ok := s.GetFields()["params"]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedCommand, "params")
	}
	sv, ok := v.GetKind().(*structpb.Value_StructValue)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an object", ErrMalformedCommand, "params")
	}
	params := make(map[string]float64, len(sv.StructValue.GetFields()))
	for name := range sv.StructValue.GetFields() {
		n, err := numberField(sv.StructValue, name)
		if err != nil {
			return nil, err
		}
		params[name] = n
	}
	return params, nil
}

// Apply executes a command against the world.
func (w *World) Apply(c Command) error {
	switch c.Type {
	case CommandNavigate:
		w.Navigate(c.Target)
	case CommandSpawnKind:
		var ok bool
		if c.HasPosition {
			_, ok = w.SpawnKind(c.Index, c.Target)
		} else {
			_, ok = w.SpawnKindAnywhere(c.Index)
		}
		if !ok {
			return fmt.Errorf("no unit kind at index %d", c.Index)
		}
	case CommandIntruder:
		w.SpawnIntruder()
	case CommandDespawn:
		if !w.Despawn(c.ID) {
			return fmt.Errorf("no unit %q", c.ID)
		}
	case CommandTune:
		var errs []error
		for name, value := range c.Params {
			if err := w.Tune(name, value); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, c.Type)
	}
	return nil
}
