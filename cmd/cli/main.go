// Command cli is a terminal client for the Animothèque API.
//
// Usage:
//
//	cli [-addr URL] register|login|reset-password
//	cli [-addr URL] list|add|delete <id>|export
//
// The bearer token obtained by login is stored in ~/.animotheque_token.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/animotheque/animotheque/internal/client"
	"github.com/animotheque/animotheque/internal/lookup"
)

const tokenFile = ".animotheque_token"

func main() {
	addr := flag.String("addr", "http://localhost:8080", "API base URL")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	c := client.New(*addr)
	if token, err := loadToken(); err == nil {
		c.SetToken(token)
	}

	ctx := context.Background()
	var err error
	switch flag.Arg(0) {
	case "register":
		err = register(ctx, c)
	case "login":
		err = login(ctx, c)
	case "reset-password":
		err = resetPassword(ctx, c)
	case "list":
		err = list(ctx, c)
	case "add":
		err = add(ctx, c)
	case "delete":
		if flag.NArg() < 2 {
			err = fmt.Errorf("usage: delete <id>")
		} else {
			err = remove(ctx, c, flag.Arg(1))
		}
	case "export":
		err = export(ctx, c)
	default:
		err = fmt.Errorf("unknown command %q", flag.Arg(0))
	}

	if errors.Is(err, client.ErrAuthExpired) {
		fmt.Fprintln(os.Stderr, "Session expirée, reconnectez-vous avec « login ».")
		_ = os.Remove(tokenPath())
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func register(ctx context.Context, c *client.Client) error {
	email := prompt("Email: ")
	password, err := promptPassword("Mot de passe: ")
	if err != nil {
		return err
	}
	if err := c.Register(ctx, email, password); err != nil {
		return err
	}
	fmt.Println("Compte créé.")
	return nil
}

func login(ctx context.Context, c *client.Client) error {
	email := prompt("Email: ")
	password, err := promptPassword("Mot de passe: ")
	if err != nil {
		return err
	}
	if err := c.Login(ctx, email, password); err != nil {
		return err
	}
	if err := saveToken(c.Token()); err != nil {
		return err
	}
	fmt.Println("Connecté.")
	return nil
}

func resetPassword(ctx context.Context, c *client.Client) error {
	email := prompt("Email: ")
	password, err := promptPassword("Nouveau mot de passe: ")
	if err != nil {
		return err
	}
	if err := c.ResetPassword(ctx, email, password); err != nil {
		return err
	}
	fmt.Println("Mot de passe réinitialisé.")
	return nil
}

func list(ctx context.Context, c *client.Client) error {
	animes, err := c.List(ctx)
	if err != nil {
		return err
	}

	state := client.NewSortState()
	state.Toggle(client.ColumnTitle)
	state.Sort(animes)

	for _, anime := range animes {
		episode := ""
		if anime.Episode != nil {
			episode = fmt.Sprintf(" (ép. %d)", *anime.Episode)
		}
		fmt.Printf("%s\t%s\t%s%s\t%s\t%s\n",
			anime.ID,
			client.DisplayTitle(anime.Title),
			anime.LastEpisode, episode,
			client.FormatWatchDate(anime.WatchDate),
			client.FormatStatus(anime.Status))
	}
	return nil
}

func add(ctx context.Context, c *client.Client) error {
	title := prompt("Titre: ")
	if title == "" {
		return fmt.Errorf("titre requis")
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	provider := lookup.Chain{
		lookup.NewStatic(),
		lookup.NewJikanClient("https://api.jikan.moe/v4", logger),
	}

	var lastEpisode string
	switch field := client.ResolveSeasonField(ctx, provider, title).(type) {
	case client.SeasonDropdown:
		for i, option := range field.Options() {
			fmt.Printf("  %d) %s\n", i+1, option)
		}
		if n, err := strconv.Atoi(prompt("Saison [1]: ")); err == nil {
			field.Selected = n
		}
		lastEpisode = field.Value()
	default:
		lastEpisode = prompt("Saison (texte libre): ")
	}

	entry := client.Entry{
		Title:       title,
		LastEpisode: lastEpisode,
		WatchDate:   prompt("Date de visionnage (aaaa-mm-jj): "),
		Status:      prompt("Statut [fini]: "),
	}
	if entry.Status == "" {
		entry.Status = "fini"
	}
	if episode, err := strconv.Atoi(prompt("Épisode (optionnel): ")); err == nil {
		entry.Episode = &episode
	}

	anime, err := c.Add(ctx, entry)
	if err != nil {
		return err
	}
	fmt.Printf("Ajouté: %s (%s)\n", anime.Title, anime.ID)
	return nil
}

func remove(ctx context.Context, c *client.Client, id string) error {
	if _, err := c.List(ctx); err != nil {
		return err
	}

	name := id
	if anime, ok := c.FindCached(id); ok {
		name = anime.Title
	}
	answer := prompt(fmt.Sprintf("Supprimer %q ? (o/N): ", name))
	if !strings.EqualFold(answer, "o") {
		fmt.Println("Annulé.")
		return nil
	}

	if err := c.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Println("Animé supprimé.")
	return nil
}

func export(ctx context.Context, c *client.Client) error {
	data, err := c.Export(ctx)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

func tokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return tokenFile
	}
	return filepath.Join(home, tokenFile)
}

func loadToken() (string, error) {
	raw, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func saveToken(token string) error {
	if err := os.WriteFile(tokenPath(), []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}
