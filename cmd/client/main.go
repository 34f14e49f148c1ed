// Command client is a terminal frontend for the lingomap service: pick
// a country, type a phrase, optionally attach a recording, submit.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/lingomap/lingomap/internal/client"
	"github.com/lingomap/lingomap/internal/logging"
)

func main() {
	server := flag.String("server", "http://localhost:5000", "lingomap server base URL")
	audioFile := flag.String("audio", "", "WAV file to use as the recording source")
	playFile := flag.String("play", "playback.wav", "file playback writes to")
	flag.Parse()

	log := logging.NewDefault()
	ctx := context.Background()

	api := client.New(*server)
	mapView := client.NewMapView(log)
	mapView.LoadFromServer(ctx, api)

	form := client.NewSubmissionForm(api, client.FileSource{Path: *audioFile})
	authPanel := client.NewAuthPanel(api, log)

	run(ctx, mapView, form, authPanel, *playFile)
}

func run(ctx context.Context, mapView *client.MapView, form *client.SubmissionForm, authPanel *client.AuthPanel, playFile string) {
	in := bufio.NewScanner(os.Stdin)
	fmt.Println("lingomap client — type 'help' for commands")
	for {
		fmt.Print("> ")
		if !in.Scan() {
			form.Close()
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(in.Text()), " ")
		switch cmd {
		case "help":
			fmt.Println("countries | select <n> | phrase <text> | language <text> | record | stop | play | delete | submit | close | markers | signup | signin | quit")
		case "countries":
			for i, c := range mapView.Countries() {
				fmt.Printf("%3d  %s (%s)  %.2f, %.2f\n", i, c.Name, c.Code, c.Lat, c.Lng)
			}
		case "select":
			i, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Println("usage: select <n>")
				continue
			}
			c, ok := mapView.Select(i)
			if !ok {
				fmt.Println("no such country")
				continue
			}
			form.Open(c)
			fmt.Printf("selected %s — share your language\n", c.Name)
		case "phrase":
			form.Phrase = arg
		case "language":
			form.Language = arg
		case "record":
			if rec := form.Recorder(); rec != nil {
				if err := rec.Start(ctx); err != nil {
					fmt.Println("could not access microphone:", err)
				}
			}
		case "stop":
			if rec := form.Recorder(); rec != nil {
				if err := rec.Stop(); err != nil {
					fmt.Println(err)
				} else {
					fmt.Printf("recording ready (%ds)\n", rec.Elapsed())
				}
			}
		case "play":
			if rec := form.Recorder(); rec != nil {
				if err := rec.Play(client.FilePlayer{Path: playFile}); err != nil {
					fmt.Println(err)
				} else {
					fmt.Println("wrote", playFile)
				}
			}
		case "delete":
			if rec := form.Recorder(); rec != nil {
				if err := rec.Delete(); err != nil {
					fmt.Println(err)
				}
			}
		case "submit":
			sub, err := form.Submit(ctx)
			if err != nil {
				fmt.Println("failed to submit:", err)
				continue
			}
			mapView.AddSubmission(sub)
			fmt.Println("submission successful:", sub.ID)
		case "close":
			form.Close()
		case "markers":
			for _, s := range mapView.Submissions() {
				fmt.Printf("%s  %q  %.2f, %.2f\n", s.Country, s.Phrase, s.Lat, s.Lng)
			}
		case "signup", "signin":
			authPanel.SignupMode = cmd == "signup"
			fmt.Print("email: ")
			if !in.Scan() {
				continue
			}
			authPanel.Email = strings.TrimSpace(in.Text())
			fmt.Print("password: ")
			pw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				fmt.Println("read password:", err)
				continue
			}
			authPanel.Password = string(pw)
			authPanel.Submit(ctx)
		case "quit", "exit":
			form.Close()
			return
		case "":
		default:
			fmt.Println("unknown command, try 'help'")
		}
	}
}
