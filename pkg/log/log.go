// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package log provides a simple leveled logger for the tuplespace server,
// gate connections and clients. Time/date are omitted by default because
// systemd adds them for us; pass --logdate to re-enable.
//
// Uses these prefixes: https://www.freedesktop.org/software/systemd/man/sd-daemon.html
package log

import (
	"fmt"
	"io"
	"log"
	"os"
)

var logDateTime bool

var (
	DebugWriter io.Writer = os.Stderr
	InfoWriter  io.Writer = os.Stderr
	WarnWriter  io.Writer = os.Stderr
	ErrWriter   io.Writer = os.Stderr
)

var (
	DebugPrefix string = "<7>[DEBUG]   "
	InfoPrefix  string = "<6>[INFO]    "
	WarnPrefix  string = "<4>[WARNING] "
	ErrPrefix   string = "<3>[ERROR]   "
)

var (
	DebugLog *log.Logger = log.New(DebugWriter, DebugPrefix, 0)
	InfoLog  *log.Logger = log.New(InfoWriter, InfoPrefix, 0)
	WarnLog  *log.Logger = log.New(WarnWriter, WarnPrefix, log.Lshortfile)
	ErrLog   *log.Logger = log.New(ErrWriter, ErrPrefix, log.Llongfile)

	DebugTimeLog *log.Logger = log.New(DebugWriter, DebugPrefix, log.LstdFlags)
	InfoTimeLog  *log.Logger = log.New(InfoWriter, InfoPrefix, log.LstdFlags)
	WarnTimeLog  *log.Logger = log.New(WarnWriter, WarnPrefix, log.LstdFlags|log.Lshortfile)
	ErrTimeLog   *log.Logger = log.New(ErrWriter, ErrPrefix, log.LstdFlags|log.Llongfile)
)

// SetLevel silences every level below lvl by routing its writer to io.Discard.
func SetLevel(lvl string) {
	switch lvl {
	case "err", "fatal":
		WarnWriter = io.Discard
		fallthrough
	case "warn":
		InfoWriter = io.Discard
		fallthrough
	case "info":
		DebugWriter = io.Discard
	case "debug":
	default:
		fmt.Printf("log: unknown level %q, defaulting to debug\n", lvl)
	}
}

func SetLogDateTime(v bool) { logDateTime = v }

func printStr(v ...interface{}) string { return fmt.Sprint(v...) }

func Print(v ...interface{}) { Info(v...) }

func Debug(v ...interface{}) {
	if DebugWriter == io.Discard {
		return
	}
	if logDateTime {
		DebugTimeLog.Output(2, printStr(v...))
	} else {
		DebugLog.Output(2, printStr(v...))
	}
}

func Info(v ...interface{}) {
	if InfoWriter == io.Discard {
		return
	}
	if logDateTime {
		InfoTimeLog.Output(2, printStr(v...))
	} else {
		InfoLog.Output(2, printStr(v...))
	}
}

func Warn(v ...interface{}) {
	if WarnWriter == io.Discard {
		return
	}
	if logDateTime {
		WarnTimeLog.Output(2, printStr(v...))
	} else {
		WarnLog.Output(2, printStr(v...))
	}
}

func Error(v ...interface{}) {
	if ErrWriter == io.Discard {
		return
	}
	if logDateTime {
		ErrTimeLog.Output(2, printStr(v...))
	} else {
		ErrLog.Output(2, printStr(v...))
	}
}

// Fatal writes an error log entry and terminates the process.
func Fatal(v ...interface{}) {
	Error(v...)
	os.Exit(1)
}

func printfStr(format string, v ...interface{}) string { return fmt.Sprintf(format, v...) }

func Printf(format string, v ...interface{}) { Infof(format, v...) }

func Debugf(format string, v ...interface{}) {
	if DebugWriter == io.Discard {
		return
	}
	if logDateTime {
		DebugTimeLog.Output(2, printfStr(format, v...))
	} else {
		DebugLog.Output(2, printfStr(format, v...))
	}
}

func Infof(format string, v ...interface{}) {
	if InfoWriter == io.Discard {
		return
	}
	if logDateTime {
		InfoTimeLog.Output(2, printfStr(format, v...))
	} else {
		InfoLog.Output(2, printfStr(format, v...))
	}
}

func Warnf(format string, v ...interface{}) {
	if WarnWriter == io.Discard {
		return
	}
	if logDateTime {
		WarnTimeLog.Output(2, printfStr(format, v...))
	} else {
		WarnLog.Output(2, printfStr(format, v...))
	}
}

func Errorf(format string, v ...interface{}) {
	if ErrWriter == io.Discard {
		return
	}
	if logDateTime {
		ErrTimeLog.Output(2, printfStr(format, v...))
	} else {
		ErrLog.Output(2, printfStr(format, v...))
	}
}

// Fatalf writes a formatted error log entry and terminates the process.
func Fatalf(format string, v ...interface{}) {
	Errorf(format, v...)
	os.Exit(1)
}
