package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testURL = "http://example"

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name          string
		state         State
		current       float64
		notifyOnStart bool
		wantAlert     bool
		wantContains  []string
	}{
		{
			name:          "first observation with notify on start",
			current:       15.5,
			notifyOnStart: true,
			wantAlert:     true,
			wantContains:  []string{"15.5%", "monitoring started", testURL},
		},
		{
			name:          "first observation without notify on start",
			current:       15.5,
			notifyOnStart: false,
		},
		{
			name:          "unchanged with notify on start",
			state:         Observed(10),
			current:       10,
			notifyOnStart: true,
		},
		{
			name:    "unchanged without notify on start",
			state:   Observed(10),
			current: 10,
		},
		{
			name:         "changed",
			state:        Observed(10),
			current:      12.5,
			wantAlert:    true,
			wantContains: []string{"from 10% to 12.5%", testURL},
		},
		{
			name:         "tiny change still alerts",
			state:        Observed(10),
			current:      10.000001,
			wantAlert:    true,
			wantContains: []string{"from 10% to 10.000001%"},
		},
		{
			name:         "change to zero",
			state:        Observed(3.2),
			current:      0,
			wantAlert:    true,
			wantContains: []string{"from 3.2% to 0%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, alert, next := Evaluate(testURL, tt.state, tt.current, tt.notifyOnStart)

			assert.Equal(t, tt.wantAlert, alert)
			if !tt.wantAlert {
				assert.Empty(t, msg)
			}
			for _, want := range tt.wantContains {
				assert.Contains(t, msg, want)
			}

			v, ok := next.Previous()
			assert.True(t, ok, "state always advances")
			assert.Equal(t, tt.current, v)
		})
	}
}

func TestDetect_OneAlertPerTransition(t *testing.T) {
	readings := []float64{20, 20, 20, 25, 25, 20, 20}
	var state State
	alerts := 0
	for _, r := range readings {
		var alert bool
		alert, state = Detect(state, r, true)
		if alert {
			alerts++
		}
	}
	// start, 20→25, 25→20
	assert.Equal(t, 3, alerts)
}

func TestFormatMessage(t *testing.T) {
	assert.Equal(t,
		"FedWatch Ease probability is 15.5% (monitoring started). Source: http://example",
		FormatMessage(testURL, State{}, 15.5))
	assert.Equal(t,
		"FedWatch Ease probability changed from 10% to 12.5%. Source: http://example",
		FormatMessage(testURL, Observed(10), 12.5))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", State{}.String())
	assert.Equal(t, "observed(42.1)", Observed(42.1).String())
}
