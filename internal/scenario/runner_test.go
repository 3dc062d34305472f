package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const failedScenario = `
name: failed campaign
accounts:
  owner: "0x00000000000000000000000000000000000000aa"
  donor: "0x00000000000000000000000000000000000000d1"
balances:
  donor: "2000"
steps:
  - action: set_time
    time: 100
  - action: deploy
    caller: owner
    params:
      target: "1000"
      deadline: 600
      min_contribution: "10"
      max_per_user: "1000"
      max_cap: "1000"
  - action: fund
    caller: donor
    amount: "500"
  - action: claim
    caller: donor
    expect_error: ClaimTooEarly
  - action: set_time
    time: 601
  - action: check
    expect:
      status: Failed
      deposits:
        donor: "500"
  - action: claim
    caller: donor
    expect:
      transferred: "500"
      deposits:
        donor: "0"
      balances:
        donor: "2000"
  - action: claim
    caller: donor
    expect:
      transferred: "0"
  - action: claim
    caller: owner
    expect:
      transferred: "0"
      held_balance: "0"
`

const hardCapScenario = `
name: hard cap
accounts:
  a: "0x00000000000000000000000000000000000000a1"
  b: "0x00000000000000000000000000000000000000b2"
balances:
  a: "95"
  b: "10"
steps:
  - {action: set_time, time: 1}
  - action: deploy
    caller: a
    params: {target: "50", deadline: 10, min_contribution: "1", max_per_user: "100", max_cap: "100"}
  - {action: fund, caller: a, amount: "95"}
  - {action: fund, caller: b, amount: "10", expect_error: HardCapExceeded}
  - action: check
    expect:
      held_balance: "95"
      deposits: {b: "0"}
      balances: {b: "10"}
`

func TestRunTemplate(t *testing.T) {
	report, err := Run(Template())
	require.NoError(t, err)
	assert.Len(t, report.Steps, len(Template().Steps))
}

func TestRunFailedScenario(t *testing.T) {
	sc, err := Parse([]byte(failedScenario))
	require.NoError(t, err)
	report, err := Run(sc)
	require.NoError(t, err)
	assert.Equal(t, "failed campaign", report.Name)
}

func TestRunHardCapScenario(t *testing.T) {
	sc, err := Parse([]byte(hardCapScenario))
	require.NoError(t, err)
	_, err = Run(sc)
	require.NoError(t, err)
}

func TestRunReportsMismatch(t *testing.T) {
	sc := Template()
	sc.Steps[len(sc.Steps)-1].Expect.Balances["owner"] = "999"
	report, err := Run(sc)
	assert.ErrorIs(t, err, ErrMismatch)
	assert.Len(t, report.Steps, len(sc.Steps))
}

func TestRunUnexpectedError(t *testing.T) {
	sc := Template()
	// 去掉预期错误后，低于最小金额的入金应当被视为失败
	sc.Steps[2].ExpectError = ""
	_, err := Run(sc)
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestLoadRoundTrip(t *testing.T) {
	data, err := Marshal(Template())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "template.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	sc, err := Load(path)
	require.NoError(t, err)
	_, err = Run(sc)
	require.NoError(t, err)
}

func TestParseRejectsEmpty(t *testing.T) {
	_, err := Parse([]byte("name: empty\n"))
	assert.Error(t, err)
}
