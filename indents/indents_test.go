package indents

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/reusee/exindent/diags"
	"github.com/reusee/exindent/styles"
)

func fixture(s string) string {
	return strings.TrimPrefix(dedent.Dedent(s), "\n")
}

var handleCall = fixture(`
	def handle_call({:release_lock, key}, _from, state) do
	  case get_lock(state, key) do
	    nil ->
	      {:reply, {:error, :already_unlocked}, state}

	    _ ->
	      new_state = delete_lock(state, key)
	      {:reply, :ok, new_state}
	  end
	end

	def
	`)

var datetimeToString = fixture(`
	@impl true
	def datetime_to_string(
	      year,
	      month,
	      day,
	      hour,
	      minute,
	      second,
	      microsecond,
	      _time_zone,
	      zone_abbr,
	      _utc_offset,
	      _std_offset
	    ) do
	  "#{year}-#{month}-#{day}" <>
	    Calendar.ISO.time_to_string(hour, minute, second, microsecond) <> " #{zone_abbr} (HE)"
	end
	`)

var holocene = fixture(`
	defmodule Calendar.Holocene do
	  # This calendar is used to test conversions between calendars.
	  # It implements the Holocene calendar, which is based on the
	  # Propleptic Gregorian calendar with every year + 10000.

	  @behaviour Calendar

	  def date(year, month, day) do
	    %Date{year: year, month: month, day: day, calendar: __MODULE__}
	  end

	  def naive_datetime(year, month, day, hour, minute, second, microsecond \\ {0, 0}) do
	    %NaiveDateTime{
	      year: year,
	      month: month,
	      day: day,
	      hour: hour,
	      minute: minute,
	      second: second,
	      microsecond: microsecond,
	      calendar: __MODULE__
	    }
	  end

	  @impl true
	  def date_to_string(year, month, day) do
	    "#{year}-#{month}-#{day} (HE)"
	  end

	  @impl true
	  def naive_datetime_to_string(year, month, day, hour, minute, second, microsecond) do
	    "#{year}-#{month}-#{day}" <>
	      Calendar.ISO.time_to_string(hour, minute, second, microsecond) <> " (HE)"
	  end
	`)

var isoDays = fixture(`
	@impl true
	def day_rollover_relative_to_midnight_utc(), do: {0, 1}

	@impl true
	def naive_datetime_from_iso_days(entry) do
	  {year, month, day, hour, minute, second, microsecond} =
	    Calendar.ISO.naive_datetime_from_iso_days(entry)

	  {year + 10000, month, day, hour, minute, second, microsecond}
	end
	`)

func analyze(t *testing.T, src string, style styles.Style) Report {
	t.Helper()
	report, err := Analyze(src, style)
	if err != nil {
		t.Fatal(err)
	}
	return report
}

func structural(report Report) []string {
	var ret []string
	for _, d := range report.Structural() {
		ret = append(ret, d.Message)
	}
	return ret
}

func TestFixtures(t *testing.T) {
	for _, c := range []struct {
		name       string
		src        string
		style      styles.Style
		structural []string
	}{
		{"handle call", handleCall, styles.Default(), []string{"unterminated def"}},
		{"datetime to string", datetimeToString, styles.MixFormat(), nil},
		{"holocene", holocene, styles.Default(), []string{"unterminated defmodule block"}},
		{"iso days", isoDays, styles.Default(), nil},
	} {
		t.Run(c.name, func(t *testing.T) {
			report := analyze(t, c.src, c.style)
			if !report.Passed() {
				t.Fatalf("got %+v", report.Mismatches)
			}
			if got := structural(report); !slices.Equal(got, c.structural) {
				t.Fatalf("got %v", got)
			}
			formatted, err := Reformat(c.src, c.style)
			if err != nil {
				t.Fatal(err)
			}
			if formatted != c.src {
				t.Fatalf("got\n%s", formatted)
			}
		})
	}
}

func TestHeaderUnderDefaultStyle(t *testing.T) {
	// mix-style headers are not canonical under the default style
	mismatches, err := Verify(datetimeToString, styles.Default())
	if err != nil {
		t.Fatal(err)
	}
	if len(mismatches) != 12 {
		t.Fatalf("got %+v", mismatches)
	}
	if mismatches[len(mismatches)-1] != (Mismatch{Line: 14, Expected: 0, Actual: 4}) {
		t.Fatalf("got %+v", mismatches[len(mismatches)-1])
	}
}

const caseClauses = "def handle_call(x) do\n  case x do\n    nil ->\n      :a\n    _ ->\n      :b\n  end\nend\n"

func TestCaseClauses(t *testing.T) {
	report := analyze(t, caseClauses, styles.Default())
	if !report.Passed() || !report.Clean() {
		t.Fatalf("got %+v", report.Diagnostics)
	}
}

func TestMisindentedClauseBody(t *testing.T) {
	src := strings.Replace(caseClauses, "      :a", "     :a", 1)
	mismatches, err := Verify(src, styles.Default())
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(mismatches, []Mismatch{{Line: 4, Expected: 6, Actual: 5}}) {
		t.Fatalf("got %+v", mismatches)
	}
}

func TestMultiLineHeader(t *testing.T) {
	src := "def f(\n  a,\n  b\n) do\n  a\nend\n"
	report := analyze(t, src, styles.Default())
	if !report.Passed() || !report.Clean() {
		t.Fatalf("got %+v", report.Diagnostics)
	}

	src = strings.Replace(src, ") do", "  ) do", 1)
	mismatches, err := Verify(src, styles.Default())
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(mismatches, []Mismatch{{Line: 4, Expected: 0, Actual: 2}}) {
		t.Fatalf("got %+v", mismatches)
	}
}

func TestOperatorContinuation(t *testing.T) {
	src := fixture(`
		message =
		  "a" <>
		    "b" <>
		    "c"

		message
		|> String.upcase()
		|> IO.puts()
		`)
	report := analyze(t, src, styles.Default())
	if !report.Passed() || !report.Clean() {
		t.Fatalf("got %+v", report.Diagnostics)
	}
}

func TestTruncatedDef(t *testing.T) {
	report := analyze(t, "def", styles.Default())
	if !report.Passed() {
		t.Fatalf("got %+v", report.Mismatches)
	}
	ds := report.Structural()
	if len(ds) != 1 || ds[0].Message != "unterminated def" || ds[0].Line != 1 {
		t.Fatalf("got %+v", ds)
	}
	if !errors.Is(ds[0], diags.ErrStructuralMismatch) {
		t.Fatal()
	}
}

func TestBlankLineRuns(t *testing.T) {
	src := "defmodule Hello do\n  def hello do\n  end\n" +
		strings.Repeat("\n", 40) +
		"  def world do\n  end\n" +
		strings.Repeat("   \n", 3) +
		"end\n"
	report := analyze(t, src, styles.Default())
	if !report.Passed() || !report.Clean() {
		t.Fatalf("got %+v", report.Diagnostics)
	}
	for _, record := range report.Lines {
		if record.Blank && record.Checked() {
			t.Fatalf("got %+v", record)
		}
	}
}

const heredoc = `def f do
  """
      weird
 indentation #{x}
  """
end
`

func TestHeredocOpacity(t *testing.T) {
	report := analyze(t, heredoc, styles.Default())
	if !report.Passed() || !report.Clean() {
		t.Fatalf("got %+v", report.Diagnostics)
	}
	if !report.Lines[2].Opaque || !report.Lines[3].Opaque {
		t.Fatalf("got %+v", report.Lines)
	}

	// delimiter lines are checked
	src := strings.Replace(heredoc, "  \"\"\"\nend", "    \"\"\"\nend", 1)
	src = strings.Replace(src, "  \"\"\"\n      weird", " \"\"\"\n      weird", 1)
	mismatches, err := Verify(src, styles.Default())
	if err != nil {
		t.Fatal(err)
	}
	expected := []Mismatch{
		{Line: 2, Expected: 2, Actual: 1},
		{Line: 5, Expected: 2, Actual: 4},
	}
	if !slices.Equal(mismatches, expected) {
		t.Fatalf("got %+v", mismatches)
	}

	formatted, err := Reformat(src, styles.Default())
	if err != nil {
		t.Fatal(err)
	}
	if formatted != heredoc {
		t.Fatalf("got\n%s", formatted)
	}
}

func TestMultiLineString(t *testing.T) {
	src := "x = \"a\n   b\"\ny\n"
	report := analyze(t, src, styles.Default())
	if !report.Passed() {
		t.Fatalf("got %+v", report.Mismatches)
	}
	if !report.Lines[1].Opaque {
		t.Fatalf("got %+v", report.Lines[1])
	}
}

const messy = `defmodule M do
def a(x) do
      case x do
  1 ->
 :one
    _ ->
          x =
   2
        end
   end
    # trailing
end
`

const tidy = `defmodule M do
  def a(x) do
    case x do
      1 ->
        :one
      _ ->
        x =
          2
    end
  end
  # trailing
end
`

func TestReformat(t *testing.T) {
	once, err := Reformat(messy, styles.Default())
	if err != nil {
		t.Fatal(err)
	}
	if once != tidy {
		t.Fatalf("got\n%s", once)
	}

	// fixed point
	twice, err := Reformat(once, styles.Default())
	if err != nil {
		t.Fatal(err)
	}
	if twice != once {
		t.Fatalf("got\n%s", twice)
	}
	if mismatches, err := Verify(once, styles.Default()); err != nil || len(mismatches) > 0 {
		t.Fatalf("got %v %+v", err, mismatches)
	}
}

func TestVerifyReformatAgreement(t *testing.T) {
	for _, src := range []string{
		messy,
		strings.Replace(caseClauses, "      :a", "\t:a", 1),
		strings.ReplaceAll(holocene, "\n  ", "\n   "),
		"x = \"\"\"\n  a\n   \"\"\"\n",
	} {
		report := analyze(t, src, styles.Default())
		formatted := Apply(src, report)

		var changed []int
		before := strings.SplitAfter(src, "\n")
		after := strings.SplitAfter(formatted, "\n")
		if len(before) != len(after) {
			t.Fatalf("got %d lines, want %d", len(after), len(before))
		}
		for i := range before {
			if before[i] != after[i] {
				changed = append(changed, i+1)
			}
		}

		var mismatched []int
		for _, mismatch := range report.Mismatches {
			mismatched = append(mismatched, mismatch.Line)
		}
		if !slices.Equal(changed, mismatched) {
			t.Fatalf("got %v, want %v", changed, mismatched)
		}
	}
}

func TestIdempotence(t *testing.T) {
	for _, src := range []string{
		caseClauses,
		tidy,
		heredoc,
		isoDays,
		"",
		"\n\n",
		"x",
	} {
		formatted, err := Reformat(src, styles.Default())
		if err != nil {
			t.Fatal(err)
		}
		if formatted != src {
			t.Fatalf("got %q, want %q", formatted, src)
		}
	}
}

func TestBalanced(t *testing.T) {
	for _, src := range []string{
		caseClauses,
		tidy,
		heredoc,
		isoDays,
		"fn -> [1, %{a: <<1>>}] end",
		"Enum.map(list, fn x ->\n  x + 1\nend)\n",
		"if a, do: b, else: c\n",
		"try do\n  x\nrescue\n  e -> e\ncatch\n  :exit, _ -> nil\nafter\n  :ok\nend\n",
	} {
		report := analyze(t, src, styles.Default())
		if ds := report.Structural(); len(ds) > 0 {
			t.Fatalf("%s: got %+v", src, ds)
		}
	}
}

func TestTabs(t *testing.T) {
	src := "def a do\n\t:ok\nend\n"
	mismatches, err := Verify(src, styles.Default())
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(mismatches, []Mismatch{{Line: 2, Expected: 2, Actual: 8}}) {
		t.Fatalf("got %+v", mismatches)
	}

	style := styles.Default()
	style.TabWidth = 2
	if mismatches, _ := Verify(src, style); len(mismatches) > 0 {
		t.Fatalf("got %+v", mismatches)
	}
}

func TestUnitWidth(t *testing.T) {
	style := styles.Default()
	style.UnitWidth = 4
	src := "def a do\n    :ok\nend\n"
	if mismatches, _ := Verify(src, style); len(mismatches) > 0 {
		t.Fatalf("got %+v", mismatches)
	}
}

func TestPreconditions(t *testing.T) {
	if _, err := Analyze("def \xff", styles.Default()); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("got %v", err)
	}
	style := styles.Default()
	style.UnitWidth = 0
	if _, err := Analyze("def", style); !errors.Is(err, styles.ErrInvalidStyle) {
		t.Fatalf("got %v", err)
	}
}

func TestDiagnosticsOrder(t *testing.T) {
	report := analyze(t, "def a do\n   x = \"abc\n", styles.Default())
	if len(report.Diagnostics) != 3 {
		t.Fatalf("got %+v", report.Diagnostics)
	}
	kinds := make(map[diags.Kind]bool)
	for i, d := range report.Diagnostics {
		kinds[d.Kind] = true
		if i > 0 && d.Line < report.Diagnostics[i-1].Line {
			t.Fatalf("got %+v", report.Diagnostics)
		}
	}
	if len(kinds) != 3 {
		t.Fatalf("got %+v", report.Diagnostics)
	}
	if !slices.Equal(report.Mismatches, []Mismatch{{Line: 2, Expected: 2, Actual: 3}}) {
		t.Fatalf("got %+v", report.Mismatches)
	}
}

func TestMismatchedCloserRecovery(t *testing.T) {
	for _, src := range []string{
		"def f do\n  foo(a]\n  b\nend\n",
		"x = [1, 2}\ny\n",
	} {
		report := analyze(t, src, styles.Default())
		if !report.Passed() || len(report.Diagnostics) != 1 {
			t.Fatalf("%q: got %+v", src, report.Diagnostics)
		}
		if report.Diagnostics[0].OpenerLine == 0 {
			t.Fatalf("got %+v", report.Diagnostics[0])
		}
	}
}

func TestUnterminatedLiteralLine(t *testing.T) {
	report := analyze(t, "x = \"abc\n", styles.Default())
	ds := report.Structural()
	if len(ds) != 1 || ds[0].Line != 1 {
		t.Fatalf("got %+v", ds)
	}
}
