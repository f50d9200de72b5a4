package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avelkov/dreamchat/internal/client/api"
	"github.com/avelkov/dreamchat/internal/models"
)

func monthRooms() []models.ChatRoom {
	return []models.ChatRoom{
		{ID: "room-03", Date: "2026-08-03", IsActive: true},
		{ID: "room-15", Date: "2026-08-15", IsActive: true},
		{ID: "room-20", Date: "2026-08-20", IsActive: false},
	}
}

func loadMonth(t *testing.T, b *CalendarBrowser) {
	t.Helper()
	b.Dispatch(context.Background(), CalendarMonthSelected{Month: "2026-08"})
	b.Wait()
	require.Equal(t, "2026-08", b.State().Month)
}

func TestCalendarMonthLoad(t *testing.T) {
	var gotMonth string
	gw := &fakeGateway{
		roomsByMonthFn: func(ctx context.Context, month string) ([]models.ChatRoom, error) {
			gotMonth = month
			return monthRooms(), nil
		},
	}
	b := NewCalendarBrowser(gw, testLogger())

	loadMonth(t, b)

	require.Equal(t, "2026-08", gotMonth)
	st := b.State()
	require.Len(t, st.Rooms, 3)
	require.Equal(t, []string{"2026-08-03", "2026-08-15"}, st.DaysWithRecords())
	require.False(t, st.DetailVisible)
}

func TestCalendarDayWithoutRoomShowsNoRecord(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{
		roomsByMonthFn: func(ctx context.Context, month string) ([]models.ChatRoom, error) {
			return monthRooms(), nil
		},
		// messagesFn nil: no detail fetch may happen for an absent day
	}
	b := NewCalendarBrowser(gw, testLogger())
	loadMonth(t, b)

	b.Dispatch(ctx, CalendarDaySelected{Date: "2026-08-09"})
	b.Wait()

	st := b.State()
	require.Equal(t, noRecordMessage, st.ErrorMessage)
	require.False(t, st.DetailVisible)
	require.Nil(t, st.SelectedRoom)
}

func TestCalendarDayWithEmptyRoomShowsNoRecord(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{
		roomsByMonthFn: func(ctx context.Context, month string) ([]models.ChatRoom, error) {
			return monthRooms(), nil
		},
		messagesFn: func(ctx context.Context, roomID string) ([]models.Message, error) {
			return nil, nil
		},
	}
	b := NewCalendarBrowser(gw, testLogger())
	loadMonth(t, b)

	b.Dispatch(ctx, CalendarDaySelected{Date: "2026-08-03"})
	b.Wait()

	st := b.State()
	require.Equal(t, noRecordMessage, st.ErrorMessage, "an empty room reads as no record")
	require.False(t, st.DetailVisible)
}

func TestCalendarDayFetchErrorIsNotNoRecord(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{
		roomsByMonthFn: func(ctx context.Context, month string) ([]models.ChatRoom, error) {
			return monthRooms(), nil
		},
		messagesFn: func(ctx context.Context, roomID string) ([]models.Message, error) {
			return nil, &api.Error{Message: "internal error", Status: 500}
		},
	}
	b := NewCalendarBrowser(gw, testLogger())
	loadMonth(t, b)

	b.Dispatch(ctx, CalendarDaySelected{Date: "2026-08-03"})
	b.Wait()

	st := b.State()
	require.Equal(t, "internal error", st.ErrorMessage)
	require.NotEqual(t, noRecordMessage, st.ErrorMessage)
	require.False(t, st.DetailVisible)
}

func TestCalendarDayNotFoundReadsAsNoRecord(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{
		roomsByMonthFn: func(ctx context.Context, month string) ([]models.ChatRoom, error) {
			return monthRooms(), nil
		},
		messagesFn: func(ctx context.Context, roomID string) ([]models.Message, error) {
			return nil, api.ErrNotFound
		},
	}
	b := NewCalendarBrowser(gw, testLogger())
	loadMonth(t, b)

	b.Dispatch(ctx, CalendarDaySelected{Date: "2026-08-15"})
	b.Wait()

	require.Equal(t, noRecordMessage, b.State().ErrorMessage)
}

func TestCalendarDetailOpensSortedAndDismisses(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 8, 3, 22, 0, 0, 0, time.UTC)
	gw := &fakeGateway{
		roomsByMonthFn: func(ctx context.Context, month string) ([]models.ChatRoom, error) {
			return monthRooms(), nil
		},
		messagesFn: func(ctx context.Context, roomID string) ([]models.Message, error) {
			return []models.Message{
				{ID: "m-2", Sender: models.SenderBot, CreatedAt: base.Add(time.Minute)},
				{ID: "m-1", Sender: models.SenderUser, CreatedAt: base},
			}, nil
		},
	}
	b := NewCalendarBrowser(gw, testLogger())
	loadMonth(t, b)

	b.Dispatch(ctx, CalendarDaySelected{Date: "2026-08-03"})
	b.Wait()

	st := b.State()
	require.True(t, st.DetailVisible)
	require.Equal(t, "room-03", st.SelectedRoom.ID)
	require.Equal(t, "m-1", st.SelectedMessages[0].ID)
	require.Equal(t, "m-2", st.SelectedMessages[1].ID)

	b.Dispatch(ctx, CalendarDetailDismissed{})
	st = b.State()
	require.False(t, st.DetailVisible)
	require.Nil(t, st.SelectedRoom)
	require.Empty(t, st.SelectedMessages)
}

func TestCalendarMonthLoadFailure(t *testing.T) {
	gw := &fakeGateway{
		roomsByMonthFn: func(ctx context.Context, month string) ([]models.ChatRoom, error) {
			return nil, api.ErrUnavailable
		},
	}
	b := NewCalendarBrowser(gw, testLogger())

	b.Dispatch(context.Background(), CalendarMonthSelected{Month: "2026-08"})
	b.Wait()

	st := b.State()
	require.False(t, st.LoadingMonth)
	require.NotEmpty(t, st.ErrorMessage)
	require.Empty(t, st.Rooms)
}
