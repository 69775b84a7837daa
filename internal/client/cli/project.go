package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/collabpack/internal/netx"
)

type project struct {
	ID           int64    `json:"ID"`
	ProjectName  string   `json:"ProjectName"`
	CreatorEmail string   `json:"CreatorEmail"`
	Participants []string `json:"Participants"`
}

// Projects lists all project packs.
func (a *App) Projects(ctx context.Context) error {
	var projects []project
	if err := netx.GetJSON(a.client, a.url("/api/projects/"), a.token, &projects); err != nil {
		fmt.Println("Listing failed:", err)
		return err
	}
	for _, p := range projects {
		fmt.Printf("#%d  %s (by %s): %s\n",
			p.ID, p.ProjectName, p.CreatorEmail, strings.Join(p.Participants, ", "))
	}
	return nil
}

// NewProject creates a project with the caller as first participant.
func (a *App) NewProject(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter project name", os.Stdout)
	if err != nil {
		return err
	}

	var created project
	err = netx.PostJSON(a.client, a.url("/api/projects/"), a.token,
		map[string]string{"project_name": name}, &created)
	if err != nil {
		fmt.Println("Creation failed:", err)
		return err
	}
	fmt.Printf("Created project #%d %s\n", created.ID, created.ProjectName)
	return nil
}

// AddMember adds an account to a project's participant list.
func (a *App) AddMember(ctx context.Context) error {
	raw, err := GetSimpleText(a.reader, "Enter project id", os.Stdout)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Println("Not a project id:", raw)
		return err
	}
	member, err := GetSimpleText(a.reader, "Enter participant email", os.Stdout)
	if err != nil {
		return err
	}

	var updated project
	err = netx.PostJSON(a.client, a.url(fmt.Sprintf("/api/projects/%d/participants", id)), a.token,
		map[string]string{"participant": member}, &updated)
	if err != nil {
		fmt.Println("Update failed:", err)
		return err
	}
	fmt.Printf("Project #%d participants: %s\n", updated.ID, strings.Join(updated.Participants, ", "))
	return nil
}
