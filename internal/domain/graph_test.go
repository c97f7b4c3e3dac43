package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func spotPositions(n int) []Position {
	out := make([]Position, n)
	for i := range out {
		out[i] = Position{Asset: "BTC", Quantity: 1, PositionType: PositionTypeSpot, EntryPrice: 90000}
	}
	return out
}

func TestGraphRequest_Validate(t *testing.T) {
	t.Run("normalizes positions and defaults", func(t *testing.T) {
		got, err := GraphRequest{
			Positions: []Position{
				{Asset: " btc", Quantity: 1, PositionType: PositionTypeSpot, EntryPrice: 90000},
				{Asset: "Btc", Quantity: 1, PositionType: PositionTypeFuturesShort, EntryPrice: 90000, Leverage: 2},
			},
		}.Validate()
		require.NoError(t, err)

		expected := ValidatedGraphRequest{
			Positions: []Position{
				{Asset: "BTC", Quantity: 1, PositionType: PositionTypeSpot, EntryPrice: 90000, Leverage: 1},
				{Asset: "BTC", Quantity: 1, PositionType: PositionTypeFuturesShort, EntryPrice: 90000, Leverage: 2},
			},
			LookbackDays: DefaultLookbackDays,
			GraphTypes:   ImplementedGraphTypes,
		}
		require.Equal(t, "", cmp.Diff(expected, *got))
	})

	t.Run("dedupes graph types in request order", func(t *testing.T) {
		got, err := GraphRequest{
			Positions:  spotPositions(1),
			GraphTypes: []GraphType{GraphTypeDelta, GraphTypeMonteCarlo, GraphTypeDelta, GraphTypeSensitivity},
		}.Validate()
		require.NoError(t, err)
		require.Equal(t, []GraphType{GraphTypeDelta, GraphTypeMonteCarlo, GraphTypeSensitivity}, got.GraphTypes)
		require.True(t, got.Wants(GraphTypeMonteCarlo))
		require.False(t, got.Wants(GraphTypeAlerts))
	})

	t.Run("clamps lookback", func(t *testing.T) {
		for _, tc := range []struct {
			in       *int
			expected int
		}{
			{nil, 30},
			{intPtr(3), 7},
			{intPtr(45), 45},
			{intPtr(200), 90},
		} {
			got, err := GraphRequest{Positions: spotPositions(1), LookbackDays: tc.in}.Validate()
			require.NoError(t, err)
			require.Equal(t, tc.expected, got.LookbackDays)
		}
	})

	type errCase struct {
		name        string
		request     GraphRequest
		expectedErr ValidationError
	}
	cases := []errCase{
		{
			name:        "no positions",
			request:     GraphRequest{},
			expectedErr: ValidationError{Field: "positions", Reason: "portfolio must contain at least one position"},
		},
		{
			name:        "more than 20 positions",
			request:     GraphRequest{Positions: spotPositions(21)},
			expectedErr: ValidationError{Field: "positions", Reason: "at most 20 positions allowed, got 21"},
		},
		{
			name: "reports the index of the bad position",
			request: GraphRequest{Positions: append(spotPositions(1), Position{
				Asset: "ETH", Quantity: 1, PositionType: PositionTypeFuturesLong, EntryPrice: 3000, Leverage: 200,
			})},
			expectedErr: ValidationError{Field: "positions[1].leverage", Reason: "must be <= 125, got 200"},
		},
		{
			name:        "unknown graph type",
			request:     GraphRequest{Positions: spotPositions(1), GraphTypes: []GraphType{GraphTypeDelta, "heatmap"}},
			expectedErr: ValidationError{Field: "graph_types[1]", Reason: `unknown graph type "heatmap"`},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.request.Validate()
			var validationErr ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, "", cmp.Diff(tc.expectedErr, validationErr))
			require.Equal(t, ErrorKindValidation, KindOf(err))
		})
	}
}

func TestGraphType(t *testing.T) {
	require.True(t, GraphTypeAlerts.IsImplemented())
	require.False(t, GraphTypeRollingMetrics.IsImplemented())
	require.True(t, GraphTypeRollingMetrics.IsKnown())
	require.False(t, GraphType("heatmap").IsKnown())
}
