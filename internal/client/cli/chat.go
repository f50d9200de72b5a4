package cli

import (
	"context"
	"fmt"

	"github.com/avelkov/dreamchat/internal/client/session"
	"github.com/avelkov/dreamchat/internal/models"
)

// OpenRoom loads today's chat room and prints the conversation so far.
func (a *App) OpenRoom(ctx context.Context) error {
	a.coordinator.Dispatch(ctx, session.AppRoutePushed{Route: session.RouteChat})
	a.chat.Dispatch(ctx, session.ChatRoomRequested{})
	a.chat.Wait()

	st := a.chat.State()
	if st.ErrorMessage != "" {
		printlnFn(st.ErrorMessage)
		a.chat.Dispatch(ctx, session.ChatDismissError{})
		return nil
	}

	printlnFn(fmt.Sprintf("%s (%s, %s)", st.Room.Title, st.Room.Date, st.Persona().DisplayName()))
	for _, m := range st.Messages {
		printMessage(m)
	}
	return nil
}

// Send tells the bot about a dream and waits for the animated reply.
func (a *App) Send(ctx context.Context, text string) error {
	if a.chat.State().Room == nil {
		if err := a.OpenRoom(ctx); err != nil {
			return err
		}
		if a.chat.State().Room == nil {
			return nil
		}
	}

	a.chat.Dispatch(ctx, session.ChatInputChanged{Text: text})
	a.chat.Dispatch(ctx, session.ChatSendRequested{})
	a.chat.Wait()

	if msg := a.chat.State().ErrorMessage; msg != "" {
		printlnFn(msg)
		a.chat.Dispatch(ctx, session.ChatDismissError{})
	}
	return nil
}

// SelectPersona switches the bot persona of the active room and reloads it.
func (a *App) SelectPersona(ctx context.Context, name string) error {
	persona, err := models.ParsePersona(name)
	if err != nil {
		printlnFn("Unknown persona:", name)
		printlnFn("Available personas:")
		for _, p := range models.AllPersonas {
			printlnFn(" ", string(p), "-", p.DisplayName())
		}
		return nil
	}

	a.coordinator.Dispatch(ctx, session.AppRoutePushed{Route: session.RouteBotSettings})
	a.chat.Dispatch(ctx, session.ChatPersonaSelected{Persona: persona})
	a.chat.Wait()
	a.coordinator.Dispatch(ctx, session.AppRoutePopped{})

	st := a.chat.State()
	if st.ErrorMessage != "" {
		printlnFn(st.ErrorMessage)
		a.chat.Dispatch(ctx, session.ChatDismissError{})
		return nil
	}
	printlnFn("Persona is now", st.Persona().DisplayName())
	return nil
}

// GenerateImage asks the server to illustrate today's dream.
func (a *App) GenerateImage(ctx context.Context) error {
	a.chat.Dispatch(ctx, session.ChatImageRequested{})
	a.chat.Wait()

	st := a.chat.State()
	if st.ErrorMessage != "" {
		printlnFn(st.ErrorMessage)
		a.chat.Dispatch(ctx, session.ChatDismissError{})
		return nil
	}
	if st.GeneratedImageURL != "" {
		printlnFn("Dream image:", st.GeneratedImageURL)
	}
	return nil
}

func printMessage(m models.Message) {
	who := "you"
	if m.Sender == models.SenderBot {
		who = "bot"
	}
	printlnFn(fmt.Sprintf("[%s] %s", who, m.Content))
	if m.ImageURL != "" {
		printlnFn("      image:", m.ImageURL)
	}
}
