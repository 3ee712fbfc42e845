package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVRows(t *testing.T) {
	t.Run("zips cells against the header", func(t *testing.T) {
		rows, err := ParseCSVRows("Amount, Currency\n100.00, cad\n50.00, usd\n")

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "100.00", rows[0].cell("Amount"))
		assert.Equal(t, "cad", rows[0].cell("Currency"))
		assert.Equal(t, "usd", rows[1].cell("Currency"))
	})

	t.Run("empty file is rejected", func(t *testing.T) {
		for _, raw := range []string{"", "\n\n", "Amount, Currency\n", "Amount, Currency\n\n\n"} {
			_, err := ParseCSVRows(raw)
			assert.ErrorIs(t, err, ErrEmptyFile, "input %q", raw)
		}
	})

	t.Run("blank lines are skipped", func(t *testing.T) {
		rows, err := ParseCSVRows("Amount\n\n100\n\n200\n")

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "100", rows[0].cell("Amount"))
		assert.Equal(t, "200", rows[1].cell("Amount"))
	})

	t.Run("windows line endings are normalized", func(t *testing.T) {
		rows, err := ParseCSVRows("Amount, Currency\r\n100, cad\r\n")

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "cad", rows[0].cell("Currency"))
	})

	t.Run("missing trailing cells read as empty", func(t *testing.T) {
		rows, err := ParseCSVRows("Amount, Currency, Describe\n100, cad\n")

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Nil(t, rows[0]["Describe"])
		assert.Empty(t, rows[0].cell("Describe"))
	})

	t.Run("quoted fields are split naively", func(t *testing.T) {
		// Quoting is not interpreted: an embedded comma splits the cell and
		// shifts the remaining columns. The import format forbids commas in
		// values; this pins that a quoted value does not smuggle one in.
		rows, err := ParseCSVRows("Amount, Describe, Currency\n100, \"a, b\", cad\n")

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, `"a`, rows[0].cell("Describe"))
		assert.Equal(t, `b"`, rows[0].cell("Currency"))
	})
}
