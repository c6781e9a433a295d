// Package ui implements the interactive terminal download manager on top of
// bubbletea. The model polls the download controller on a timer tick and
// renders the queue, the add form and a status line.
package ui
