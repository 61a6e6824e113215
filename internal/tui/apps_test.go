package tui

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f130r/workspace01/internal/fx"
	"github.com/f130r/workspace01/internal/janlookup"
	"github.com/f130r/workspace01/internal/receipt"
	"github.com/f130r/workspace01/internal/roulette"
	"github.com/f130r/workspace01/internal/timecard"
	"github.com/f130r/workspace01/internal/timetable"
)

type stubLookup struct {
	items map[string]janlookup.Item
	err   error
}

func (s stubLookup) Lookup(_ context.Context, code string) (janlookup.Item, error) {
	if s.err != nil {
		return janlookup.Item{}, s.err
	}
	if it, ok := s.items[code]; ok {
		return it, nil
	}
	return janlookup.Item{}, janlookup.ErrNotFound
}

func typeText(t *testing.T, m JAN, s string) JAN {
	t.Helper()
	for _, r := range s {
		m, _ = press(t, m, string(r))
	}
	return m
}

func TestJANRejectsMalformedCode(t *testing.T) {
	m := NewJAN(stubLookup{}, nil, 0)
	m = typeText(t, m, "12345")
	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	assert.True(t, m.isErr)
	assert.False(t, m.busy)
}

func TestJANLookupFlow(t *testing.T) {
	svc := stubLookup{items: map[string]janlookup.Item{
		"4901234567890": {Code: "4901234567890", Name: "特選コーヒー豆ブレンドA 200g", Category: "飲料・食品", Maker: "山川食品", Price: 1280},
	}}
	m := NewJAN(svc, []string{"4901234567890"}, time.Second)
	assert.Contains(t, m.View(), "4901234567890", "demo codes are listed")

	m = typeText(t, m, "4901234567890")
	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	assert.Contains(t, m.View(), "検索中")

	next, _ := m.Update(m.lookup("4901234567890")())
	m = next.(JAN)
	assert.False(t, m.busy)
	require.NotNil(t, m.item)
	assert.Contains(t, m.View(), "特選コーヒー豆ブレンドA 200g")
	assert.Contains(t, m.View(), "¥1280")

	next, _ = m.Update(lookupMsg{code: "4999999999999", err: janlookup.ErrNotFound})
	m = next.(JAN)
	assert.Nil(t, m.item)
	assert.Contains(t, m.msg, "見つかりません")

	next, _ = m.Update(lookupMsg{code: "9784000000000", err: errors.New("timeout")})
	m = next.(JAN)
	assert.Contains(t, m.msg, "timeout")

	_, cmd = press(t, m, "esc")
	requireQuit(t, cmd)
}

func TestFXShowsSnapshots(t *testing.T) {
	ch := make(chan fx.Snapshot)
	m := newFX(ch, time.FixedZone("JST", 9*3600))
	assert.Contains(t, m.View(), "取得中")

	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	s := fx.Series{Pair: "USDJPY=X"}
	for i := 0; i < 8; i++ {
		s.Points = append(s.Points, fx.Quote{Time: base.Add(time.Duration(i) * time.Minute), Close: 150 + float64(i)/10})
	}
	next, cmd := m.Update(snapshotMsg{Series: []fx.Series{s}, Fetched: base})
	require.NotNil(t, cmd, "keeps waiting for the next snapshot")
	m = next.(FX)
	m.now = func() time.Time { return base.Add(time.Minute) }

	v := m.View()
	assert.Contains(t, v, "USD/JPY")
	assert.Contains(t, v, "150.70 円")
	assert.Contains(t, v, "09:07")
	assert.NotContains(t, v, "09:02", "only the last five closes")
	assert.Contains(t, v, "JST")

	next, _ = m.Update(snapshotMsg{Err: errors.New("offline")})
	m = next.(FX)
	v = m.View()
	assert.Contains(t, v, "150.70 円", "last good data stays")
	assert.Contains(t, v, "offline")

	_, cmd = press(t, m, "q")
	requireQuit(t, cmd)
}

func TestFXReport(t *testing.T) {
	s := fx.Series{Pair: "CADJPY=X", Points: []fx.Quote{{Time: time.Unix(0, 0), Close: 109.456}}}
	out := FXReport([]fx.Series{s, {Pair: "EURJPY=X"}}, time.Unix(0, 0), time.UTC)
	assert.Contains(t, out, "CAD/JPY")
	assert.Contains(t, out, "109.46 円")
	assert.Contains(t, out, "データなし")
}

func TestRouletteSpinSettles(t *testing.T) {
	w, err := roulette.NewWheel([]string{"イギリス", "オランダ", "アメリカ", "カナダ"})
	require.NoError(t, err)
	m := NewRoulette(w, rand.New(rand.NewPCG(1, 2)))
	assert.Empty(t, m.Result())

	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	require.True(t, m.spinning())
	assert.Contains(t, m.View(), "回転中")

	_, again := press(t, m, "enter")
	assert.Nil(t, again, "no second spin while turning")

	for i := 0; i < 1000 && m.spinning(); i++ {
		next, _ := m.Update(frameMsg{})
		m = next.(Roulette)
	}
	require.False(t, m.spinning())
	assert.Equal(t, w.Options[m.winner], m.Result())
	assert.Equal(t, m.winner, w.At(m.angle))
	assert.Contains(t, m.View(), "結果: "+m.Result())
}

var receiptDay = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

func TestReceiptFormToPreviewAndBack(t *testing.T) {
	dir := t.TempDir()
	m := NewReceipt(receipt.New("テスト商店", receiptDay), dir, time.UTC, nil)
	assert.Equal(t, receipt.DefaultName, m.inputs[fieldName].Value())
	assert.Equal(t, "1000", m.inputs[fieldAmount].Value())
	assert.Equal(t, "2024-04-01", m.inputs[fieldDate].Value())

	m, _ = press(t, m, "tab", "tab")
	assert.Equal(t, fieldDate, m.focus)
	m, _ = press(t, m, "shift+tab", "shift+tab", "shift+tab")
	assert.Equal(t, fieldIssuer, m.focus, "focus wraps")

	m, _ = press(t, m, "enter")
	require.True(t, m.preview, m.msg)
	assert.NotEmpty(t, m.current.Number)
	assert.Equal(t, int64(1000), m.current.Amount)
	assert.NotEmpty(t, m.render)

	m, _ = press(t, m, "s")
	assert.False(t, m.isErr, m.msg)
	files, err := filepath.Glob(filepath.Join(dir, "receipt-20240401-*.md"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	m, _ = press(t, m, "b")
	assert.False(t, m.preview)
}

func TestReceiptValidation(t *testing.T) {
	m := NewReceipt(receipt.New("", receiptDay), t.TempDir(), time.UTC, nil)

	m.inputs[fieldAmount].SetValue("abc")
	m, _ = press(t, m, "ctrl+s")
	assert.False(t, m.preview)
	assert.True(t, m.isErr)

	m.inputs[fieldAmount].SetValue("0")
	m, _ = press(t, m, "ctrl+s")
	assert.False(t, m.preview)
	assert.Contains(t, m.msg, receipt.ErrAmount.Error())

	m.inputs[fieldAmount].SetValue("12,000")
	m.inputs[fieldDate].SetValue("04/01")
	m, _ = press(t, m, "ctrl+s")
	assert.Contains(t, m.msg, "YYYY-MM-DD")

	m.inputs[fieldDate].SetValue("2024-05-05")
	m, _ = press(t, m, "ctrl+s")
	require.True(t, m.preview)
	assert.Equal(t, int64(12000), m.current.Amount)
}

func newTestTimecard(t *testing.T, clock time.Time) (Timecard, *timecard.Book) {
	t.Helper()
	store := timecard.NewCSVStore(filepath.Join(t.TempDir(), "timecard.csv"), nil)
	book := timecard.NewBook(store, time.UTC, nil)
	book.Clock = func() time.Time { return clock }
	return NewTimecard(context.Background(), book, nil), book
}

func TestTimecardClockCycle(t *testing.T) {
	m, book := newTestTimecard(t, time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC))

	m, _ = press(t, m, "o")
	assert.Equal(t, levelWarn, m.lvl)
	assert.Equal(t, "まず出勤を記録してください", m.msg)

	m, _ = press(t, m, "i")
	assert.Equal(t, levelOK, m.lvl)
	assert.Equal(t, "出勤: 09:00:00", m.msg)
	assert.Len(t, m.tbl.Rows(), 1)

	m, _ = press(t, m, "i")
	assert.Equal(t, "今日の出勤は既に記録されています", m.msg)

	book.Clock = func() time.Time { return time.Date(2024, 4, 1, 17, 45, 0, 0, time.UTC) }
	m, _ = press(t, m, "o")
	assert.Equal(t, "退勤: 17:45:00", m.msg)
	assert.Equal(t, "08:45", m.tbl.Rows()[0][3])
	assert.Contains(t, m.View(), "合計 08:45")

	m, _ = press(t, m, "o")
	assert.Equal(t, "既に退勤済みです", m.msg)

	m, _ = press(t, m, "c")
	assert.Empty(t, m.tbl.Rows())
}

func TestTimecardEditAndDelete(t *testing.T) {
	m, book := newTestTimecard(t, time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC))
	m, _ = press(t, m, "i")

	m, _ = press(t, m, "e")
	require.True(t, m.editing)
	assert.Equal(t, "09:00:00", m.inputs[0].Value())
	m, _ = press(t, m, "tab")
	m.inputs[1].SetValue("18:30:00")
	m, _ = press(t, m, "enter")
	assert.False(t, m.editing)
	assert.Equal(t, "編集内容を保存しました", m.msg)

	recs, err := book.Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []timecard.Record{{Date: "2024-04-01", Start: "09:00:00", End: "18:30:00"}}, recs)

	m, _ = press(t, m, "d", "n")
	assert.Len(t, m.tbl.Rows(), 1, "cancelled")
	m, _ = press(t, m, "d", "y")
	assert.Empty(t, m.tbl.Rows())
	assert.Equal(t, "2024-04-01 の記録を削除しました", m.msg)
}

func TestTimecardReloadsOnChange(t *testing.T) {
	ch := make(chan struct{}, 1)
	store := timecard.NewCSVStore(filepath.Join(t.TempDir(), "timecard.csv"), nil)
	book := timecard.NewBook(store, time.UTC, nil)
	m := NewTimecard(context.Background(), book, ch)
	require.NotNil(t, m.Init())

	require.NoError(t, store.Save(context.Background(), []timecard.Record{{Date: "2024-04-01", Start: "09:00:00"}}))
	ch <- struct{}{}
	msg := m.Init()()
	next, cmd := m.Update(msg)
	m = next.(Timecard)
	assert.NotNil(t, cmd)
	assert.Len(t, m.tbl.Rows(), 1)

	m, _ = press(t, m, "D", "y")
	assert.Empty(t, m.tbl.Rows())
}

func TestTimetableEditAndPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timetable.json")
	tt := &timetable.Timetable{}
	m := NewTimetable(tt, path, nil)

	m, _ = press(t, m, "right", "down", "enter")
	require.True(t, m.editing)
	m, _ = press(t, m, "英", "語", "enter")
	assert.False(t, m.editing)

	got, _ := tt.Get(1, 1)
	assert.Equal(t, "英語", got)
	assert.Contains(t, m.msg, "火曜 2限")
	_, err := os.Stat(path)
	require.NoError(t, err)

	loaded, err := timetable.Load(path)
	require.NoError(t, err)
	got, _ = loaded.Get(1, 1)
	assert.Equal(t, "英語", got)

	m, _ = press(t, m, "x")
	got, _ = tt.Get(1, 1)
	assert.Empty(t, got)

	_ = tt.Set(0, 0, "数学")
	m, _ = press(t, m, "C")
	assert.Zero(t, tt.Filled())
	assert.Contains(t, m.View(), "0/25")

	_, cmd := press(t, m, "q")
	requireQuit(t, cmd)
}
