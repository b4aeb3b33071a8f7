package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRows(t *testing.T) {
	t.Run("maps columns by header", func(t *testing.T) {
		input := "CustomerID,Tenure,MonthlyCharges\nA-1,12,70.35\nA-2,0,19.9\n"

		rows, err := ReadRows(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "A-1", rows[0]["CustomerID"])
		assert.Equal(t, "70.35", rows[0]["MonthlyCharges"])
		assert.Equal(t, "0", rows[1]["Tenure"])
	})

	t.Run("quoted values with commas", func(t *testing.T) {
		input := "CustomerID,PaymentMethod\nA-1,\"Bank transfer (automatic), preferred\"\n"

		rows, err := ReadRows(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, "Bank transfer (automatic), preferred", rows[0]["PaymentMethod"])
	})

	t.Run("short rows keep missing columns absent", func(t *testing.T) {
		input := "CustomerID,Tenure,MonthlyCharges\nA-1,12\n"

		rows, err := ReadRows(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, rows, 1)

		_, present := rows[0]["MonthlyCharges"]
		assert.False(t, present)
	})

	t.Run("empty input fails", func(t *testing.T) {
		_, err := ReadRows(strings.NewReader(""))
		assert.Error(t, err)
	})
}
