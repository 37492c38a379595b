package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"mywellness-tools/activityfile"
	"mywellness-tools/strava"
)

func main() {
	var (
		secretsPath  = flag.String("secrets", "config/secrets.json", "Path to the secrets JSON file")
		name         = flag.String("name", "", "Activity name (default: derived from the file)")
		description  = flag.String("description", "Technogym", "Activity description")
		activityType = flag.String("type", "ride", "Strava activity type")
		trainer      = flag.Bool("trainer", true, "Mark the activity as a trainer ride")
		commute      = flag.Bool("commute", false, "Mark the activity as a commute")
		wait         = flag.Bool("wait", true, "Wait for Strava to finish processing the upload")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] activity.tcx\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	// Optional .env for STRAVA_CLIENT_ID/STRAVA_CLIENT_SECRET overrides.
	_ = godotenv.Load()

	if err := run(filePath, *secretsPath, *name, *description, *activityType, *trainer, *commute, *wait); err != nil {
		fmt.Fprintf(os.Stderr, "strava-upload failed: %v\n", err)
		os.Exit(1)
	}
}

func run(filePath, secretsPath, name, description, activityType string, trainer, commute, wait bool) error {
	ctx := context.Background()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	fileType := activityfile.Detect(data, filePath)
	dataType, err := fileType.StravaDataType(true)
	if err != nil {
		return fmt.Errorf("%w: %s", err, filePath)
	}

	var summary *activityfile.Summary
	if s, err := activityfile.Summarize(filePath); err == nil {
		summary = s
	} else {
		slog.Warn("could not summarize activity file", "path", filePath, "error", err)
	}
	if name == "" {
		name = activityfile.DefaultName(summary, filePath)
	}

	store := strava.NewFileTokenStore(secretsPath)
	source := strava.NewStoreTokenSource(store)
	applyEnvOverrides(store)
	client := strava.NewClient(strava.NewHTTPClient(source))

	compressed, err := strava.GzipBytes(data)
	if err != nil {
		return fmt.Errorf("compressing %s: %w", filePath, err)
	}

	slog.Info("uploading activity", "file", filePath, "data_type", dataType, "name", name)
	upload, err := client.UploadActivity(ctx, bytes.NewReader(compressed), filepath.Base(filePath)+".gz", strava.UploadOptions{
		DataType:     dataType,
		Name:         name,
		Description:  description,
		ActivityType: activityType,
		Trainer:      trainer,
		Commute:      commute,
	})
	if err != nil {
		return err
	}
	fmt.Printf("upload id:         %d\n", upload.ID)
	fmt.Printf("status:            %s\n", upload.Status)

	if !wait {
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	done, err := client.WaitForActivity(waitCtx, upload.ID)
	if err != nil {
		return err
	}
	fmt.Printf("activity id:       %d\n", done.ActivityID)
	fmt.Printf("https://www.strava.com/activities/%d\n", done.ActivityID)
	return nil
}

// applyEnvOverrides lets STRAVA_CLIENT_ID/STRAVA_CLIENT_SECRET take
// precedence over the values stored in the secrets file, so the secrets
// file can hold tokens only.
func applyEnvOverrides(store *strava.FileTokenStore) {
	clientID := os.Getenv("STRAVA_CLIENT_ID")
	clientSecret := os.Getenv("STRAVA_CLIENT_SECRET")
	if clientID == "" && clientSecret == "" {
		return
	}
	creds, err := store.Load()
	if err != nil {
		return
	}
	changed := false
	if clientID != "" && creds.ClientID != clientID {
		creds.ClientID = clientID
		changed = true
	}
	if clientSecret != "" && creds.ClientSecret != clientSecret {
		creds.ClientSecret = clientSecret
		changed = true
	}
	if changed {
		if err := store.Save(creds); err != nil {
			slog.Warn("could not persist credential overrides", "error", err)
		}
	}
}
