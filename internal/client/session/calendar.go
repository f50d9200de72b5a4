package session

import (
	"context"
	"errors"
	"sync"

	"github.com/avelkov/dreamchat/internal/client/api"
	"github.com/avelkov/dreamchat/internal/logging"
	"github.com/avelkov/dreamchat/internal/models"
)

const noRecordMessage = "no dream record for that date"

// CalendarState is the month view plus, when a recorded day is selected,
// the detail pane for that day's conversation.
type CalendarState struct {
	Month            string
	Rooms            []models.ChatRoom
	SelectedRoom     *models.ChatRoom
	SelectedMessages []models.Message
	DetailVisible    bool
	LoadingMonth     bool
	LoadingDetail    bool
	ErrorMessage     string
}

// DaysWithRecords lists the dates in the loaded month that have a dream
// record, in the order the server returned them.
func (s CalendarState) DaysWithRecords() []string {
	days := make([]string, 0, len(s.Rooms))
	for _, r := range s.Rooms {
		if r.HasRecord() {
			days = append(days, r.Date)
		}
	}
	return days
}

// CalendarEvent is the closed set of events the calendar browser reduces.
type CalendarEvent interface{ calendarEvent() }

// CalendarMonthSelected loads the rooms of a month given as "YYYY-MM". It
// also dismisses any open detail pane.
type CalendarMonthSelected struct{ Month string }

// CalendarDaySelected opens the detail for a date given as "YYYY-MM-DD".
// Days without a record show an informational message, never the pane.
type CalendarDaySelected struct{ Date string }

// CalendarDetailDismissed closes the detail pane.
type CalendarDetailDismissed struct{}

// CalendarDismissError clears the error slot.
type CalendarDismissError struct{}

type calendarMonthLoaded struct {
	month string
	rooms []models.ChatRoom
}
type calendarMonthLoadFailed struct{ err error }
type calendarDetailLoaded struct {
	room     models.ChatRoom
	messages []models.Message
}
type calendarDetailLoadFailed struct{ err error }

func (CalendarMonthSelected) calendarEvent()   {}
func (CalendarDaySelected) calendarEvent()     {}
func (CalendarDetailDismissed) calendarEvent() {}
func (CalendarDismissError) calendarEvent()    {}
func (calendarMonthLoaded) calendarEvent()     {}
func (calendarMonthLoadFailed) calendarEvent() {}
func (calendarDetailLoaded) calendarEvent()     {}
func (calendarDetailLoadFailed) calendarEvent() {}

type calendarEffect func(ctx context.Context) CalendarEvent

// CalendarBrowser lets an authenticated user revisit past dream records by
// month and day.
type CalendarBrowser struct {
	gw  api.Gateway
	log logging.Logger

	mu    sync.Mutex
	wg    sync.WaitGroup
	state CalendarState
}

func NewCalendarBrowser(gw api.Gateway, log logging.Logger) *CalendarBrowser {
	return &CalendarBrowser{gw: gw, log: log}
}

func (b *CalendarBrowser) Dispatch(ctx context.Context, ev CalendarEvent) {
	b.mu.Lock()
	effects := b.reduce(ev)
	b.mu.Unlock()

	for _, eff := range effects {
		b.wg.Add(1)
		go func(run calendarEffect) {
			defer b.wg.Done()
			if next := run(ctx); next != nil {
				b.Dispatch(ctx, next)
			}
		}(eff)
	}
}

// Wait blocks until all outstanding effects have settled.
func (b *CalendarBrowser) Wait() {
	b.wg.Wait()
}

// State returns a snapshot with defensive copies of the slices.
func (b *CalendarBrowser) State() CalendarState {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := b.state
	st.Rooms = append([]models.ChatRoom(nil), st.Rooms...)
	st.SelectedMessages = append([]models.Message(nil), st.SelectedMessages...)
	if st.SelectedRoom != nil {
		r := *st.SelectedRoom
		st.SelectedRoom = &r
	}
	return st
}

func (b *CalendarBrowser) reduce(ev CalendarEvent) []calendarEffect {
	switch ev := ev.(type) {
	case CalendarMonthSelected:
		if b.state.LoadingMonth {
			return nil
		}
		b.state.LoadingMonth = true
		b.state.ErrorMessage = ""
		b.state.DetailVisible = false
		b.state.SelectedRoom = nil
		b.state.SelectedMessages = nil
		month := ev.Month
		return []calendarEffect{func(ctx context.Context) CalendarEvent {
			rooms, err := b.gw.RoomsByMonth(ctx, month)
			if err != nil {
				return calendarMonthLoadFailed{err: err}
			}
			return calendarMonthLoaded{month: month, rooms: rooms}
		}}

	case calendarMonthLoaded:
		b.state.LoadingMonth = false
		b.state.Month = ev.month
		b.state.Rooms = ev.rooms
		return nil

	case calendarMonthLoadFailed:
		b.log.Warn(context.Background(), "loading calendar month failed", "err", ev.err)
		b.state.LoadingMonth = false
		b.state.ErrorMessage = errText(ev.err)
		return nil

	case CalendarDaySelected:
		return b.reduceDaySelected(ev.Date)

	case calendarDetailLoaded:
		b.state.LoadingDetail = false
		if len(ev.messages) == 0 {
			// an empty room is a day without a record, not a failure
			b.state.ErrorMessage = noRecordMessage
			return nil
		}
		room := ev.room
		b.state.SelectedRoom = &room
		b.state.SelectedMessages = ev.messages
		models.SortMessages(b.state.SelectedMessages)
		b.state.DetailVisible = true
		return nil

	case calendarDetailLoadFailed:
		b.state.LoadingDetail = false
		switch {
		case errors.Is(ev.err, api.ErrNotFound):
			b.state.ErrorMessage = noRecordMessage
		case errors.Is(ev.err, api.ErrUnauthorized):
			b.state.ErrorMessage = "sign in to view dream records"
		default:
			b.state.ErrorMessage = errText(ev.err)
		}
		return nil

	case CalendarDetailDismissed:
		b.state.DetailVisible = false
		b.state.SelectedRoom = nil
		b.state.SelectedMessages = nil
		return nil

	case CalendarDismissError:
		b.state.ErrorMessage = ""
		return nil
	}
	return nil
}

func (b *CalendarBrowser) reduceDaySelected(date string) []calendarEffect {
	if b.state.LoadingDetail {
		return nil
	}
	var room *models.ChatRoom
	for i := range b.state.Rooms {
		if b.state.Rooms[i].Date == date {
			room = &b.state.Rooms[i]
			break
		}
	}
	if room == nil {
		b.state.ErrorMessage = noRecordMessage
		return nil
	}

	b.state.LoadingDetail = true
	b.state.ErrorMessage = ""
	selected := *room
	return []calendarEffect{func(ctx context.Context) CalendarEvent {
		messages, err := b.gw.Messages(ctx, selected.ID)
		if err != nil {
			return calendarDetailLoadFailed{err: err}
		}
		return calendarDetailLoaded{room: selected, messages: messages}
	}}
}
