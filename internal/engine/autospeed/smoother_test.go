package autospeed

import (
	"math"
	"sync"
	"testing"
)

func TestFeedGatesOnThreshold(t *testing.T) {
	s := New(0.025, 2.0)

	s.Feed(0.5)
	if s.Target() != 2.0 {
		t.Errorf("loud amplitude should target full speed, got %v", s.Target())
	}

	s.Feed(0.01)
	if s.Target() != 0 {
		t.Errorf("quiet amplitude should target zero, got %v", s.Target())
	}

	// Exactly at threshold counts as quiet.
	s.Feed(0.025)
	if s.Target() != 0 {
		t.Errorf("amplitude equal to threshold should target zero, got %v", s.Target())
	}
}

func TestStepRisesMonotonically(t *testing.T) {
	s := New(0.025, 2.0)
	s.Feed(1.0)

	prev := 0.0
	for i := 0; i < 50; i++ {
		v := s.Step()
		if v <= prev && prev < 2.0 {
			t.Fatalf("step %d: smoothed %v did not rise from %v", i, v, prev)
		}
		if v > 2.0 {
			t.Fatalf("step %d: smoothed %v overshot target", i, v)
		}
		prev = v
	}
}

func TestStepDecaysMonotonically(t *testing.T) {
	s := New(0.025, 2.0)
	s.Feed(1.0)
	for i := 0; i < 50; i++ {
		s.Step()
	}

	s.Feed(0.0)
	prev := s.Value()
	for i := 0; i < 50; i++ {
		v := s.Step()
		if v >= prev && prev > 0 {
			t.Fatalf("step %d: smoothed %v did not decay from %v", i, v, prev)
		}
		if v < 0 {
			t.Fatalf("step %d: smoothed went negative: %v", i, v)
		}
		prev = v
	}
}

func TestStepBoundedByGain(t *testing.T) {
	s := New(0.025, 10.0)
	s.Feed(1.0)

	prev := s.Value()
	for i := 0; i < 20; i++ {
		v := s.Step()
		bound := Gain*math.Abs(s.Target()-prev) + 1e-12
		if math.Abs(v-prev) > bound {
			t.Fatalf("step %d moved %v, bound %v", i, math.Abs(v-prev), bound)
		}
		prev = v
	}
}

func TestSpeedChangeTakesEffectOnNextFeed(t *testing.T) {
	s := New(0.025, 2.0)
	s.Feed(1.0)
	s.SetSpeed(5.0)

	if s.Target() != 2.0 {
		t.Errorf("target should hold until the next sample, got %v", s.Target())
	}

	s.Feed(1.0)
	if s.Target() != 5.0 {
		t.Errorf("target should follow the new speed, got %v", s.Target())
	}
}

func TestReset(t *testing.T) {
	s := New(0.025, 2.0)
	s.Feed(1.0)
	s.Step()
	s.Reset()

	if s.Value() != 0 || s.Target() != 0 {
		t.Errorf("reset should zero value and target, got %v / %v", s.Value(), s.Target())
	}
}

func TestFeedIsSafeFromOtherGoroutines(t *testing.T) {
	s := New(0.025, 2.0)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				s.Feed(float64(i%2) * 0.5)
			}
		}(g)
	}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			s.Step()
		}
		close(done)
	}()

	wg.Wait()
	<-done

	if tgt := s.Target(); tgt != 0 && tgt != 2.0 {
		t.Errorf("target must always be one of the two published values, got %v", tgt)
	}
}
