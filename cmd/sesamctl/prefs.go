package main

import (
	"fmt"
	"io"
	"strings"
)

type prefsView struct {
	DarkMode bool   `json:"darkMode"`
	Language string `json:"lang"`
}

func runPrefs(cc *commandContext, args []string) error {
	return dispatch(cc, "prefs", map[string]subcommand{
		"show":      {description: "Show stored preferences", run: runPrefsShow},
		"dark-mode": {description: "Turn dark mode on or off", run: runPrefsDarkMode},
		"language":  {description: "Set the UI language (en, de)", run: runPrefsLanguage},
	}, args)
}

func runPrefsShow(cc *commandContext, _ []string) error {
	dark, err := cc.Runtime.Preferences.DarkMode(cc.Ctx)
	if err != nil {
		return err
	}
	lang, err := cc.Runtime.Preferences.Language(cc.Ctx)
	if err != nil {
		return err
	}
	view := prefsView{DarkMode: dark, Language: lang}
	return cc.printer.print(view, func(w io.Writer) {
		writef(w, "DARK MODE\t%s\n", onOff(view.DarkMode))
		writef(w, "LANGUAGE\t%s\n", view.Language)
	})
}

func runPrefsDarkMode(cc *commandContext, args []string) error {
	if err := exactArgs(cc, "prefs dark-mode on|off", args, 1); err != nil {
		return err
	}
	var on bool
	switch strings.ToLower(args[0]) {
	case "on", "true":
		on = true
	case "off", "false":
	default:
		return fmt.Errorf("expected on or off, got %q", args[0])
	}
	if err := cc.Runtime.Preferences.SetDarkMode(cc.Ctx, on); err != nil {
		return err
	}
	writef(cc.Out, "dark mode %s\n", onOff(on))
	return nil
}

func runPrefsLanguage(cc *commandContext, args []string) error {
	if err := exactArgs(cc, "prefs language en|de", args, 1); err != nil {
		return err
	}
	if err := cc.Runtime.Preferences.SetLanguage(cc.Ctx, args[0]); err != nil {
		return err
	}
	lang, err := cc.Runtime.Preferences.Language(cc.Ctx)
	if err != nil {
		return err
	}
	writef(cc.Out, "language %s\n", lang)
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
