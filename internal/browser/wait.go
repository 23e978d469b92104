package browser

import (
	"errors"
	"fmt"
	"time"
)

// DefaultPollInterval is how often WaitUntil re-evaluates its condition.
const DefaultPollInterval = 500 * time.Millisecond

// Poll evaluates cond until it reports true or timeout elapses. Errors
// wrapping ErrNotFound are treated as "not yet"; if the last evaluation
// before expiry failed that way, the returned error wraps both ErrTimeout
// and ErrNotFound. Any other error is returned immediately.
func Poll(timeout, interval time.Duration, cond Condition) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	deadline := time.Now().Add(timeout)

	for {
		ok, err := cond()
		if err == nil && ok {
			return nil
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			if err != nil {
				return fmt.Errorf("%w after %s: %w", ErrTimeout, timeout, err)
			}
			return fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		time.Sleep(min(interval, remaining))
	}
}

// Displayed builds a condition that holds once the element located by by is
// present and visible.
func Displayed(d Driver, by By) Condition {
	return func() (bool, error) {
		el, err := d.FindElement(by)
		if err != nil {
			return false, err
		}
		return el.Displayed()
	}
}

// Hidden builds a condition that holds while the element located by by is
// absent or not visible.
func Hidden(d Driver, by By) Condition {
	return func() (bool, error) {
		el, err := d.FindElement(by)
		if errors.Is(err, ErrNotFound) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		visible, err := el.Displayed()
		if errors.Is(err, ErrStale) {
			// the node was removed between lookup and check
			return true, nil
		}
		return !visible, err
	}
}

// Present builds a condition that holds once at least one element matches.
func Present(d Driver, by By) Condition {
	return func() (bool, error) {
		els, err := d.FindElements(by)
		if err != nil {
			return false, err
		}
		return len(els) > 0, nil
	}
}
