package tui

import "github.com/Veraticus/pour-decisions/internal/model"

type winesLoadedMsg struct {
	err   error
	wines []model.WineRow
}

type winesSavedMsg struct {
	err   error
	count int
}
