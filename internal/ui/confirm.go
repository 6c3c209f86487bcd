package ui

import "github.com/charmbracelet/huh"

// ConfirmTermination asks before any signal is sent. detail carries the
// resolved target (protocol and address) so the prompt stands on its own
// once the preview table has scrolled away.
func ConfirmTermination(prompt, detail string) (bool, error) {
	confirmed := false
	err := huh.NewConfirm().
		Title(prompt).
		Description(detail).
		Affirmative("Terminate").
		Negative("Cancel").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, err
	}
	return confirmed, nil
}
