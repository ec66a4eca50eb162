// theme_script.go - Lua preset files for the tunable musical tables

package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// themePreset gathers every musical table the planner consults. A preset
// file overrides fields selectively; anything it leaves out keeps the
// compiled defaults, so presets stay small.
type themePreset struct {
	OrganHarmonics     []HarmonicWeight
	PadHarmonics       []HarmonicWeight
	ScaleSemitones     []int
	DissonantIntervals []float64

	AttackCap    float64
	DecayCap     float64
	ReleaseCap   float64
	SustainLevel float64

	ReverbDecay   float64
	ReverbSpacing float64 // seconds
}

// defaultPreset is the house sound: natural minor, the organ and pad
// registrations, a rubbed minor second and a tritone for tension.
func defaultPreset() *themePreset {
	return &themePreset{
		OrganHarmonics:     organHarmonics(),
		PadHarmonics:       padHarmonics(),
		ScaleSemitones:     []int{0, 2, 3, 5, 7, 8, 10},
		DissonantIntervals: []float64{1.05, 1.414},
		AttackCap:          ENV_MAX_ATTACK,
		DecayCap:           ENV_MAX_DECAY,
		ReleaseCap:         ENV_MAX_RELEASE,
		SustainLevel:       ENV_SUSTAIN_LEVEL,
		ReverbDecay:        REVERB_DECAY,
		ReverbSpacing:      REVERB_SPACING_SEC,
	}
}

func (p *themePreset) validate() error {
	if len(p.ScaleSemitones) == 0 {
		return fmt.Errorf("preset: scale has no degrees")
	}
	for _, s := range p.ScaleSemitones {
		if s < 0 || s > 11 {
			return fmt.Errorf("preset: scale semitone %d outside [0,11]", s)
		}
	}
	if len(p.OrganHarmonics) == 0 || len(p.PadHarmonics) == 0 {
		return fmt.Errorf("preset: empty harmonic profile")
	}
	for _, hw := range append(append([]HarmonicWeight{}, p.OrganHarmonics...), p.PadHarmonics...) {
		if hw.Multiple <= 0 {
			return fmt.Errorf("preset: harmonic multiple %g must be positive", hw.Multiple)
		}
		if hw.Weight < 0 {
			return fmt.Errorf("preset: harmonic weight %g must not be negative", hw.Weight)
		}
	}
	if len(p.DissonantIntervals) == 0 {
		return fmt.Errorf("preset: no dissonant intervals")
	}
	for _, r := range p.DissonantIntervals {
		if r <= 0 {
			return fmt.Errorf("preset: interval ratio %g must be positive", r)
		}
	}
	if p.SustainLevel < 0 || p.SustainLevel > 1 {
		return fmt.Errorf("preset: sustain level %g outside [0,1]", p.SustainLevel)
	}
	if p.AttackCap < 0 || p.DecayCap < 0 || p.ReleaseCap < 0 {
		return fmt.Errorf("preset: negative envelope cap")
	}
	if p.ReverbDecay <= 0 || p.ReverbDecay >= 1 {
		return fmt.Errorf("preset: reverb decay %g outside (0,1)", p.ReverbDecay)
	}
	if p.ReverbSpacing <= 0 {
		return fmt.Errorf("preset: reverb spacing %gs must be positive", p.ReverbSpacing)
	}
	return nil
}

// loadPreset runs a Lua file that returns a table, for example:
//
//	return {
//	  organ_harmonics = { {0.5, 0.1}, {1, 0.7}, {2, 0.3}, {3, 0.1} },
//	  intervals       = { 1.05, 1.414 },
//	  scale           = { 0, 2, 3, 5, 7, 8, 10 },
//	  envelope        = { attack = 0.1, sustain = 0.7 },
//	  reverb          = { decay = 0.4, spacing = 0.15 },
//	}
func loadPreset(path string) (*themePreset, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("preset: %v", err)
	}
	tbl, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("preset: %s must return a table", path)
	}

	p := defaultPreset()
	var err error

	if v := tbl.RawGetString("organ_harmonics"); v != lua.LNil {
		if p.OrganHarmonics, err = luaHarmonics(v); err != nil {
			return nil, fmt.Errorf("preset: organ_harmonics: %v", err)
		}
	}
	if v := tbl.RawGetString("pad_harmonics"); v != lua.LNil {
		if p.PadHarmonics, err = luaHarmonics(v); err != nil {
			return nil, fmt.Errorf("preset: pad_harmonics: %v", err)
		}
	}
	if v := tbl.RawGetString("scale"); v != lua.LNil {
		floats, err := luaFloats(v)
		if err != nil {
			return nil, fmt.Errorf("preset: scale: %v", err)
		}
		p.ScaleSemitones = make([]int, len(floats))
		for i, f := range floats {
			p.ScaleSemitones[i] = int(f)
		}
	}
	if v := tbl.RawGetString("intervals"); v != lua.LNil {
		if p.DissonantIntervals, err = luaFloats(v); err != nil {
			return nil, fmt.Errorf("preset: intervals: %v", err)
		}
	}
	if v := tbl.RawGetString("envelope"); v != lua.LNil {
		env, ok := v.(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("preset: envelope must be a table")
		}
		luaNumberField(env, "attack", &p.AttackCap)
		luaNumberField(env, "decay", &p.DecayCap)
		luaNumberField(env, "release", &p.ReleaseCap)
		luaNumberField(env, "sustain", &p.SustainLevel)
	}
	if v := tbl.RawGetString("reverb"); v != lua.LNil {
		rv, ok := v.(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("preset: reverb must be a table")
		}
		luaNumberField(rv, "decay", &p.ReverbDecay)
		luaNumberField(rv, "spacing", &p.ReverbSpacing)
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// luaHarmonics reads a sequence of {multiple, weight} pairs.
func luaHarmonics(v lua.LValue) ([]HarmonicWeight, error) {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("expected a table of {multiple, weight} pairs")
	}
	var out []HarmonicWeight
	var fail error
	tbl.ForEach(func(_, entry lua.LValue) {
		pair, ok := entry.(*lua.LTable)
		if !ok || pair.Len() != 2 {
			fail = fmt.Errorf("each entry must be a {multiple, weight} pair")
			return
		}
		mult, ok1 := pair.RawGetInt(1).(lua.LNumber)
		weight, ok2 := pair.RawGetInt(2).(lua.LNumber)
		if !ok1 || !ok2 {
			fail = fmt.Errorf("multiple and weight must be numbers")
			return
		}
		out = append(out, HarmonicWeight{Multiple: float64(mult), Weight: float64(weight)})
	})
	return out, fail
}

// luaFloats reads a flat numeric sequence.
func luaFloats(v lua.LValue) ([]float64, error) {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("expected a table of numbers")
	}
	var out []float64
	var fail error
	tbl.ForEach(func(_, entry lua.LValue) {
		num, ok := entry.(lua.LNumber)
		if !ok {
			fail = fmt.Errorf("entries must be numbers")
			return
		}
		out = append(out, float64(num))
	})
	return out, fail
}

// luaNumberField overwrites dst when the field is present and numeric.
func luaNumberField(tbl *lua.LTable, name string, dst *float64) {
	if num, ok := tbl.RawGetString(name).(lua.LNumber); ok {
		*dst = float64(num)
	}
}
