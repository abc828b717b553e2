package switcher

// Chrome hides and restores window-manager chrome (panels, menu bars)
// around a mode switch. Both calls are best-effort; the engine never
// inspects an outcome.
type Chrome interface {
	Suppress()
	Restore()
}

// NopChrome is the Chrome used when no window-manager collaborator is
// available.
type NopChrome struct{}

func (NopChrome) Suppress() {}
func (NopChrome) Restore()  {}

// FadeToken represents one reserved screen-fade transition.
type FadeToken interface{}

// Fader reserves and performs the visual fade masking a mode switch.
// Reservation is best-effort: a failed Reserve only disables the fade, it
// never blocks the switch.
type Fader interface {
	// Reserve acquires a fade reservation. ok is false when no fade is
	// available.
	Reserve() (tok FadeToken, ok bool)

	// FadeOut darkens the screen synchronously.
	FadeOut(tok FadeToken)

	// FadeIn reverses the fade and releases the reservation. The fade-in
	// runs fire-and-forget: completion is not awaited and does not affect
	// the switch outcome.
	FadeIn(tok FadeToken)
}

// NopFader never grants a fade reservation.
type NopFader struct{}

func (NopFader) Reserve() (FadeToken, bool) { return nil, false }
func (NopFader) FadeOut(FadeToken)          {}
func (NopFader) FadeIn(FadeToken)           {}
