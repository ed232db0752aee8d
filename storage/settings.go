/*
Copyright (C) 2024  Carl-Philip Hänsch

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
package storage

import (
	"log/slog"
	"os"

	"github.com/dc0d/onexit"
)

// SettingsT holds the process-wide, environment-sourced configuration
// read once at startup. These are plain knobs with no live runtime
// mutation path.
type SettingsT struct {
	Backend        string // TIME_SERIES_BACKEND: "fs", "timestream", "redis", "print" — required, no default
	RootDir        string // TIME_SERIES_FS_ROOT: filesystem backend root directory
	FilepathFormat string // TIME_SERIES_FS_FILEPATH_FORMAT: path template, see DefaultFilepathFormat
	S3Bucket       string // TIME_SERIES_FS_S3_BUCKET: optional archival mirror bucket
	S3Prefix       string // TIME_SERIES_FS_S3_PREFIX: optional key prefix within the bucket
	RedisAddr      string // TIME_SERIES_REDIS_ADDR: host:port for the keyed cache backend
	AWSRegion      string // TIME_SERIES_TIMESTREAM_REGION
	TSDatabase     string // TIME_SERIES_TIMESTREAM_DATABASE
	TSTable        string // TIME_SERIES_TIMESTREAM_TABLE
	Debug          bool   // TIME_SERIES_DEBUG: enable slog.LevelDebug
}

// Settings is populated once by LoadSettings at process start.
var Settings SettingsT

// LoadSettings reads every TIME_SERIES_* environment variable into
// Settings and returns it, applying documented defaults for anything
// unset — except TIME_SERIES_BACKEND, which has no default: an unset
// or unrecognized value fails session startup in newBackend, not here,
// since LoadSettings itself never fails.
func LoadSettings() SettingsT {
	Settings = SettingsT{
		Backend:        os.Getenv("TIME_SERIES_BACKEND"),
		RootDir:        envOr("TIME_SERIES_FS_ROOT", "./data"),
		FilepathFormat: envOr("TIME_SERIES_FS_FILEPATH_FORMAT", DefaultFilepathFormat),
		S3Bucket:       os.Getenv("TIME_SERIES_FS_S3_BUCKET"),
		S3Prefix:       os.Getenv("TIME_SERIES_FS_S3_PREFIX"),
		RedisAddr:      envOr("TIME_SERIES_REDIS_ADDR", "localhost:6379"),
		AWSRegion:      os.Getenv("TIME_SERIES_TIMESTREAM_REGION"),
		TSDatabase:     os.Getenv("TIME_SERIES_TIMESTREAM_DATABASE"),
		TSTable:        os.Getenv("TIME_SERIES_TIMESTREAM_TABLE"),
		Debug:          envOr("TIME_SERIES_DEBUG", "") != "",
	}
	return Settings
}

func envOr(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// InitLogging installs a slog handler at the level implied by
// Settings.Debug and registers a flush-on-exit hook so a buffered
// handler (or any trace file routed through onexit) is drained before
// the process terminates.
func InitLogging() {
	level := slog.LevelInfo
	if Settings.Debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	onexit.Register(func() {
		slog.Debug("chronostore: shutting down")
	})
}
