package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/collabpack/internal/netx"
)

type channel struct {
	ID   int64  `json:"ID"`
	Name string `json:"Name"`
}

type message struct {
	Username  string    `json:"Username"`
	UserEmail string    `json:"UserEmail"`
	Message   string    `json:"Message"`
	CreatedAt time.Time `json:"CreatedAt"`
}

// Channels lists all chat channels.
func (a *App) Channels(ctx context.Context) error {
	var channels []channel
	if err := netx.GetJSON(a.client, a.url("/api/channels/"), a.token, &channels); err != nil {
		fmt.Println("Listing failed:", err)
		return err
	}
	for _, c := range channels {
		fmt.Printf("#%d  %s\n", c.ID, c.Name)
	}
	return nil
}

// NewChannel creates a channel (admin accounts only).
func (a *App) NewChannel(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter channel name", os.Stdout)
	if err != nil {
		return err
	}

	var created channel
	err = netx.PostJSON(a.client, a.url("/api/channels/"), a.token,
		map[string]string{"name": name}, &created)
	if err != nil {
		fmt.Println("Creation failed:", err)
		return err
	}
	fmt.Printf("Created channel #%d %s\n", created.ID, created.Name)
	return nil
}

func (a *App) promptChannelID() (int64, error) {
	raw, err := GetSimpleText(a.reader, "Enter channel id", os.Stdout)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Println("Not a channel id:", raw)
		return 0, err
	}
	return id, nil
}

// Post sends a message to a channel.
func (a *App) Post(ctx context.Context) error {
	id, err := a.promptChannelID()
	if err != nil {
		return err
	}
	text, err := GetSimpleText(a.reader, "Enter message", os.Stdout)
	if err != nil {
		return err
	}

	err = netx.PostJSON(a.client, a.url(fmt.Sprintf("/api/channels/%d/messages", id)), a.token,
		map[string]string{"message": text}, nil)
	if err != nil {
		fmt.Println("Post failed:", err)
		return err
	}
	fmt.Println("Sent")
	return nil
}

// Messages prints a channel's history.
func (a *App) Messages(ctx context.Context) error {
	id, err := a.promptChannelID()
	if err != nil {
		return err
	}

	var messages []message
	err = netx.GetJSON(a.client, a.url(fmt.Sprintf("/api/channels/%d/messages", id)), a.token, &messages)
	if err != nil {
		fmt.Println("Listing failed:", err)
		return err
	}
	for _, m := range messages {
		fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("15:04"), m.Username, m.Message)
	}
	return nil
}
