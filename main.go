/*
Copyright (C) 2023  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
/*
	chronostore demo CLI: generates a handful of weather readings into a
	filesystem-backed session and queries them back out.
*/
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/dc0d/onexit"
	"github.com/google/uuid"

	"github.com/launix-de/chronostore/examples/weather"
	"github.com/launix-de/chronostore/schema"
	"github.com/launix-de/chronostore/storage"
)

func main() {
	fmt.Print(`chronostore Copyright (C) 2023-2026   Carl-Philip Hänsch and Contributors
    This program comes with ABSOLUTELY NO WARRANTY;
    This is free software, and you are welcome to redistribute it
    under certain conditions;
`)

	generate := flag.Int("generate", 0, "generate this many random weather points before querying")
	city := flag.String("city", "Berlin", "city dimension value to generate and query for")
	flag.Parse()

	// TIME_SERIES_BACKEND has no library-level default (an unset value
	// fails session startup), so the demo picks one for itself before
	// loading settings, the way a wrapper script would.
	if os.Getenv("TIME_SERIES_BACKEND") == "" {
		os.Setenv("TIME_SERIES_BACKEND", "fs")
	}

	storage.LoadSettings()
	storage.InitLogging()

	sess, err := storage.NewSession(storage.Settings)
	if err != nil {
		slog.Error("chronostore: failed to start session", "err", err)
		os.Exit(1)
	}

	descriptor, err := weather.Descriptor()
	if err != nil {
		slog.Error("chronostore: invalid weather schema", "err", err)
		os.Exit(1)
	}
	if err := sess.PrepareType(descriptor); err != nil {
		slog.Error("chronostore: prepare type failed", "err", err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	slog.Info("chronostore: starting demo run", "run_id", runID, "generate", *generate, "city", *city)

	onexit.Register(func() {
		if err := sess.Commit(); err != nil {
			slog.Error("chronostore: flush on exit failed", "err", err)
		}
	})

	if *generate > 0 {
		if err := generatePoints(sess, descriptor, *city, *generate); err != nil {
			slog.Error("chronostore: generating points failed", "err", err)
			os.Exit(1)
		}
		if err := sess.Commit(); err != nil {
			slog.Error("chronostore: commit failed", "err", err)
			os.Exit(1)
		}
	}

	end := time.Now().UTC()
	start := end.Add(-7 * 24 * time.Hour)
	seq, err := sess.Query("weather", map[string]any{"city": *city}, start, &end)
	if err != nil {
		slog.Error("chronostore: query failed", "err", err)
		os.Exit(1)
	}

	count := 0
	for p, err := range seq {
		if err != nil {
			slog.Error("chronostore: query failed", "err", err)
			os.Exit(1)
		}
		fmt.Printf("%s  temperature=%v rainfall=%v description=%v\n",
			p.Timestamp.Format(time.RFC3339), p.Values["temperature"], p.Values["rainfall"], p.Values["description"])
		count++
	}
	fmt.Printf("found %d point(s) for %s in the last 7 days\n", count, *city)
}

var descriptions = []string{weather.Sunny, weather.Cloudy, weather.Snowy}

// generatePoints fabricates n weather points for city, scattered over
// the last n hours in random order, so the resulting day files exercise
// the out-of-order commit-and-merge path rather than arriving presorted.
func generatePoints(sess *storage.Session, descriptor *schema.Descriptor, city string, n int) error {
	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		ts := now.Add(-time.Duration(rand.Intn(n*60)) * time.Minute)
		values := map[string]any{
			"city":        city,
			"temperature": -10.0 + rand.Float64()*40.0,
			"rainfall":    rand.Intn(20),
			"description": descriptions[rand.Intn(len(descriptions))],
		}
		p, err := descriptor.NewPoint(ts, values)
		if err != nil {
			return err
		}
		if err := sess.Add(p); err != nil {
			return err
		}
	}
	return nil
}
