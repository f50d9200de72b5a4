package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/avelkov/dreamchat/internal/client/session"
)

// Calendar lists the recorded dream days of a month given as "YYYY-MM".
func (a *App) Calendar(ctx context.Context, month string) error {
	if _, err := time.Parse("2006-01", month); err != nil {
		printlnFn("Usage: calendar <YYYY-MM>")
		return nil
	}

	a.calendar.Dispatch(ctx, session.CalendarMonthSelected{Month: month})
	a.calendar.Wait()

	st := a.calendar.State()
	if st.ErrorMessage != "" {
		printlnFn(st.ErrorMessage)
		a.calendar.Dispatch(ctx, session.CalendarDismissError{})
		return nil
	}

	days := st.DaysWithRecords()
	if len(days) == 0 {
		printlnFn("No dream records in", month)
		return nil
	}
	printlnFn("Recorded days in", month+":")
	for _, d := range days {
		printlnFn(" ", d)
	}
	return nil
}

// Day shows the dream record of one day given as "YYYY-MM-DD". The month
// must be loaded first via Calendar.
func (a *App) Day(ctx context.Context, date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		printlnFn("Usage: day <YYYY-MM-DD>")
		return nil
	}

	a.calendar.Dispatch(ctx, session.CalendarDaySelected{Date: date})
	a.calendar.Wait()

	st := a.calendar.State()
	if st.ErrorMessage != "" {
		printlnFn(st.ErrorMessage)
		a.calendar.Dispatch(ctx, session.CalendarDismissError{})
		return nil
	}
	if !st.DetailVisible {
		return nil
	}

	printlnFn(fmt.Sprintf("%s (%s)", st.SelectedRoom.Title, st.SelectedRoom.Date))
	for _, m := range st.SelectedMessages {
		printMessage(m)
	}
	a.calendar.Dispatch(ctx, session.CalendarDetailDismissed{})
	return nil
}
