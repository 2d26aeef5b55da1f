package commands

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr bool
	}{
		{name: "plain", line: "planRoster --month 2027-02", want: []string{"planRoster", "--month", "2027-02"}},
		{name: "extra spaces", line: "  listStaff   ", want: []string{"listStaff"}},
		{name: "double quotes", line: `planRoster --holidays "5 19"`, want: []string{"planRoster", "--holidays", "5 19"}},
		{name: "single quotes", line: `viewRun 'abc def'`, want: []string{"viewRun", "abc def"}},
		{name: "quote inside word", line: `a"b c"d`, want: []string{"ab cd"}},
		{name: "empty quotes", line: `planRoster --holidays ""`, want: []string{"planRoster", "--holidays", ""}},
		{name: "unclosed", line: `planRoster --holidays "5/19`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCommandLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunSession(t *testing.T) {
	var months []string
	var runs int

	cmd := &cobra.Command{
		Use:  "showWeights",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			month, _ := cmd.Flags().GetString("month")
			months = append(months, month)
			runs++
			return nil
		},
	}
	cmd.Flags().String("month", "", "")

	input := strings.Join([]string{
		"showWeights --month 2027-02",
		"showWeights",
		"showWeights extra",
		"unknown",
		"exit",
		"showWeights --month 2027-03",
	}, "\n")

	err := runSession(strings.NewReader(input), map[string]*cobra.Command{"showWeights": cmd})
	require.NoError(t, err)

	// Flags are reset between runs, bad args never reach RunE and nothing runs after exit
	assert.Equal(t, 2, runs)
	assert.Equal(t, []string{"2027-02", ""}, months)
}
