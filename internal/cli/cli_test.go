package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/f130r/workspace01/internal/config"
	"github.com/f130r/workspace01/internal/fx"
	"github.com/f130r/workspace01/internal/tui"
)

type harness struct {
	app     *App
	out     *bytes.Buffer
	err     *bytes.Buffer
	started []tea.Model
	tuiErr  error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Books.Endpoint = ""

	h := &harness{out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	h.app = &App{
		Cfg: cfg,
		Log: zap.NewNop(),
		Out: h.out,
		Err: h.err,
		// 09:30 in Tokyo.
		Now: func() time.Time { return time.Date(2024, 4, 1, 0, 30, 0, 0, time.UTC) },
		RunTUI: func(m tea.Model) (tea.Model, error) {
			h.started = append(h.started, m)
			return m, h.tuiErr
		},
	}
	return h
}

func (h *harness) run(args ...string) int {
	h.out.Reset()
	h.err.Reset()
	return Execute(context.Background(), h.app, append([]string{"--no-color"}, args...))
}

func TestUnknownCommandIsUsageError(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 2, h.run("nope"))
	assert.Contains(t, h.err.String(), "toybox --help")
}

func TestTimecardCycle(t *testing.T) {
	for _, backend := range []string{"csv", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			h := newHarness(t)
			h.app.Cfg.Timecard.Backend = backend

			require.Equal(t, 1, h.run("timecard", "out"))
			assert.Contains(t, h.err.String(), "まず出勤を記録してください")

			require.Equal(t, 0, h.run("timecard", "in"))
			assert.Contains(t, h.out.String(), "出勤: 2024-04-01 09:30:00")

			require.Equal(t, 1, h.run("timecard", "in"))
			assert.Contains(t, h.err.String(), "既に記録されています")

			h.app.Now = func() time.Time { return time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC) }
			require.Equal(t, 0, h.run("timecard", "out"))
			assert.Contains(t, h.out.String(), "(08:30)")

			require.Equal(t, 0, h.run("timecard", "ls"))
			assert.Contains(t, h.out.String(), "2024-04-01")
			assert.Contains(t, h.out.String(), "08:30")
		})
	}
}

func TestTimecardEditRemoveReset(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("timecard", "edit", "2024-03-29", "09:00:00", "18:15:00"))
	require.Equal(t, 0, h.run("timecard", "edit", "2024-03-29", "10:00:00", "18:15:00"))
	require.Equal(t, 0, h.run("tc", "ls"))
	assert.Contains(t, h.out.String(), "08:15")
	assert.NotContains(t, h.out.String(), "09:00:00")

	assert.Equal(t, 2, h.run("timecard", "edit", "2024-03-29", "9am", ""))
	assert.Equal(t, 2, h.run("timecard", "edit", "someday", "", ""))

	assert.Equal(t, 2, h.run("timecard", "rm", "2024-03-30"))
	assert.Contains(t, h.err.String(), "その日付の記録はありません")
	require.Equal(t, 0, h.run("timecard", "rm", "2024-03-29"))

	require.Equal(t, 0, h.run("timecard", "in"))
	assert.Equal(t, 2, h.run("timecard", "reset"))
	require.Equal(t, 0, h.run("timecard", "reset", "--yes"))
	require.Equal(t, 0, h.run("timecard", "ls"))
	assert.Contains(t, h.out.String(), "まだ記録はありません")
}

func TestTimecardClearToday(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("timecard", "clear"))
	assert.Contains(t, h.out.String(), "今日の記録はありません")

	require.Equal(t, 0, h.run("timecard", "in"))
	require.Equal(t, 0, h.run("timecard", "clear"))
	assert.Contains(t, h.out.String(), "クリアしました")
	assert.Equal(t, 0, h.run("timecard", "in"), "clock in again after clearing")
}

func TestTimecardOpensScreen(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("timecard"))
	require.Len(t, h.started, 1)
	assert.IsType(t, tui.Timecard{}, h.started[0])
}

func TestTimetableCommands(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("timetable", "set", "月", "1", "数学"))
	require.Equal(t, 0, h.run("tt", "set", "wed", "3限", "英語", "II"))
	require.Equal(t, 0, h.run("timetable", "show"))
	assert.Contains(t, h.out.String(), "数学")
	assert.Contains(t, h.out.String(), "英語 II")

	assert.Equal(t, 2, h.run("timetable", "set", "土", "1", "x"))
	assert.Equal(t, 2, h.run("timetable", "set", "月", "7", "x"))

	require.Equal(t, 0, h.run("timetable", "set", "月", "1"))
	assert.Contains(t, h.out.String(), "空き")

	require.Equal(t, 0, h.run("timetable", "clear"))
	require.Equal(t, 0, h.run("timetable", "show"))
	assert.NotContains(t, h.out.String(), "英語")

	require.Equal(t, 0, h.run("timetable"))
	assert.IsType(t, tui.Timetable{}, h.started[0])
}

func TestRouletteOnce(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("roulette", "--once", "--options", "寿司,ラーメン"))
	assert.Contains(t, h.out.String(), "結果")
	assert.Empty(t, h.started)

	assert.Equal(t, 2, h.run("roulette", "--options", "only"))

	require.Equal(t, 0, h.run("roulette"))
	assert.IsType(t, tui.Roulette{}, h.started[0])
}

func TestReceipt(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("receipt", "--markdown", "--name", "佐藤花子", "--amount", "5000", "--issuer", "テスト商店"))
	md := h.out.String()
	assert.Contains(t, md, "**佐藤花子 様**")
	assert.Contains(t, md, "¥5,000")
	assert.Contains(t, md, "2024年4月1日")
	assert.Contains(t, md, "テスト商店")

	assert.Equal(t, 2, h.run("receipt", "--print", "--amount", "0"))
	assert.Equal(t, 2, h.run("receipt", "--print", "--date", "4/1"))

	dir := t.TempDir()
	require.Equal(t, 0, h.run("receipt", "--out", dir, "--date", "2024-05-10"))
	files, err := filepath.Glob(filepath.Join(dir, "receipt-20240510-*.md"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	require.Equal(t, 0, h.run("receipt"))
	require.Len(t, h.started, 1)
	assert.IsType(t, tui.Receipt{}, h.started[0])
}

func TestJANOneShot(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("jan", "4901234567890"))
	assert.Contains(t, h.out.String(), "特選コーヒー豆")

	assert.Equal(t, 2, h.run("jan", "12345"))
	assert.Equal(t, 1, h.run("jan", "4900000000000"))
	assert.Contains(t, h.err.String(), "見つかりません")

	require.Equal(t, 0, h.run("jan"))
	assert.IsType(t, tui.JAN{}, h.started[0])
}

type fakeFetcher struct {
	series []fx.Series
	err    error
}

func (f fakeFetcher) FetchAll(context.Context, []string) ([]fx.Series, error) {
	return f.series, f.err
}

func TestFXOnce(t *testing.T) {
	h := newHarness(t)
	ts := time.Date(2024, 4, 1, 1, 0, 0, 0, time.UTC)
	f := fakeFetcher{series: []fx.Series{{Pair: "USDJPY=X", Points: []fx.Quote{{Time: ts, Close: 151.23}}}}}

	require.Equal(t, 0, h.app.doFXOnce(context.Background(), f, []string{"USDJPY=X"}))
	assert.Contains(t, h.out.String(), "151.23")

	f.err = errors.New("offline")
	assert.Equal(t, 1, h.app.doFXOnce(context.Background(), f, nil))
	assert.Contains(t, h.err.String(), "offline")
}

func TestGamesStartScreens(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("tictactoe"))
	require.Equal(t, 0, h.run("tictactoe", "--cpu", "none"))
	require.Equal(t, 0, h.run("reversi"))
	require.Equal(t, 0, h.run("hanafuda", "--seed", "7"))
	require.Len(t, h.started, 4)
	assert.IsType(t, tui.TicTacToe{}, h.started[0])
	assert.IsType(t, tui.Reversi{}, h.started[2])
	assert.IsType(t, tui.Hanafuda{}, h.started[3])

	assert.Equal(t, 2, h.run("tictactoe", "--cpu", "genius"))
	assert.Equal(t, 2, h.run("reversi", "--cpu", "genius"))
}

func TestReversiMoves(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("reversi", "--moves", "19"))
	assert.Contains(t, h.out.String(), "次の手")
	assert.Contains(t, h.out.String(), "● 3  ○ 3", "greedy reply flips one disc back")
	assert.Empty(t, h.started)

	assert.Equal(t, 2, h.run("reversi", "--moves", "64"))
	assert.Equal(t, 2, h.run("reversi", "--moves", "0"))
}

func TestScreenFailureIsRuntimeError(t *testing.T) {
	h := newHarness(t)
	h.tuiErr = errors.New("no tty")
	assert.Equal(t, 1, h.run("reversi"))
	assert.Contains(t, h.err.String(), "no tty")
}

func TestConfigCommands(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.Equal(t, 0, h.run("--config", path, "config", "path"))
	assert.Equal(t, path+"\n", h.out.String())

	require.Equal(t, 0, h.run("--config", path, "config", "show"))
	assert.Contains(t, h.out.String(), "time_zone: Asia/Tokyo")

	require.Equal(t, 0, h.run("--config", path, "config", "init"))
	_, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, 1, h.run("--config", path, "config", "init"))
	assert.Equal(t, 0, h.run("--config", path, "config", "init", "--force"))

	back, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, h.app.Cfg.DataDir, back.DataDir)
}

func TestBadConfigIsUsageError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("time_zone: Mars/Olympus\n"), 0o644))

	var out, errb bytes.Buffer
	a := &App{Out: &out, Err: &errb, Log: zap.NewNop()}
	assert.Equal(t, 2, Execute(context.Background(), a, []string{"--config", path, "timetable", "show"}))
	assert.Contains(t, errb.String(), "config")
}

func TestLauncherRunsChosenDemo(t *testing.T) {
	h := newHarness(t)
	h.app.RunTUI = func(m tea.Model) (tea.Model, error) {
		h.started = append(h.started, m)
		if l, ok := m.(tui.Launcher); ok {
			// Commands are sorted; timetable is last.
			var next tea.Model = l
			for _, k := range []tea.KeyMsg{
				{Type: tea.KeyRunes, Runes: []rune("G")},
				{Type: tea.KeyEnter},
			} {
				next, _ = next.Update(k)
			}
			return next, nil
		}
		return m, nil
	}
	require.Equal(t, 0, h.run())
	require.Len(t, h.started, 2)
	assert.IsType(t, tui.Timetable{}, h.started[1])
}
