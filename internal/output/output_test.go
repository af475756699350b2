package output_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jrsteele09/citizen-watch/internal/output"
	"github.com/stretchr/testify/require"
)

func TestPrinterPlain(t *testing.T) {
	var out, errOut bytes.Buffer
	p := output.NewPrinter(&out, &errOut, false, false)

	p.Success("signed in as %s", "ana")
	p.Warning("token expires soon")
	p.Error("failed")
	p.Header("Incidents")

	require.Contains(t, out.String(), "[OK] signed in as ana")
	require.Contains(t, out.String(), "Incidents\n---------")
	require.Contains(t, errOut.String(), "[WARN] token expires soon")
	require.Contains(t, errOut.String(), "[ERROR] failed")
	require.Equal(t, "resolved", p.StatusBadge("resolved"))
}

func TestPrinterQuiet(t *testing.T) {
	var out, errOut bytes.Buffer
	p := output.NewPrinter(&out, &errOut, false, true)

	p.Info("hidden")
	p.Print("hidden")
	p.Error("shown")

	require.Empty(t, out.String())
	require.Contains(t, errOut.String(), "shown")
}

func TestTable(t *testing.T) {
	var out bytes.Buffer
	table := output.NewTable(&out, []string{"id", "type"})
	table.AddRow("inc-1", "robbery")
	table.AddRow("inc-2", "accident")
	require.Equal(t, 2, table.Len())
	require.NoError(t, table.Render())

	rendered := out.String()
	require.Contains(t, strings.ToUpper(rendered), "TYPE")
	require.Contains(t, rendered, "inc-1")
	require.Contains(t, rendered, "accident")
}
