package widget

// attemptMount inserts the widget into the first matching container and
// starts its components. Without a container it schedules a retry until the
// cycle's budget is spent. Callers hold c.mu.
func (c *Controller) attemptMount(cy *cycle) {
	if cy.closed || c.doc.Exists(WidgetID) {
		return
	}

	cy.attempts++
	c.recorder.MountAttempted()
	log := c.cycleLogger(cy)

	markup := buildMarkup(c.opts.EnableWeather)
	for _, sel := range c.opts.Selectors {
		ok, err := c.doc.PrependTo(sel, markup)
		if err != nil {
			log.Warn().Err(err).Str("selector", sel.Name).Msg("cannot insert widget")
			continue
		}
		if !ok {
			continue
		}

		cy.mounted = true
		c.recorder.Mounted()
		log.Info().Str("selector", sel.Name).Int("attempt", cy.attempts).Msg("widget mounted")
		c.startComponents(cy)
		return
	}

	if cy.retries < c.opts.MaxRetries {
		cy.retries++
		task, err := c.sched.After(c.opts.RetryDelay, func() { c.mountLater(cy) })
		if err != nil {
			log.Error().Err(err).Msg("cannot schedule mount retry")
			return
		}
		cy.track(task)
		log.Debug().Int("retry", cy.retries).Dur("delay", c.opts.RetryDelay).Msg("no container yet, retrying")
		return
	}

	cy.abandoned = true
	c.recorder.MountAbandoned()
	log.Warn().Int("attempts", cy.attempts).Msg("no sidebar container found, giving up")
}

// mountLater is the timer entry point for retries and post-navigation mounts.
func (c *Controller) mountLater(cy *cycle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attemptMount(cy)
}

// startComponents renders the clock, starts its ticker, issues the location
// lookup and schedules the weather lookup. Callers hold c.mu.
func (c *Controller) startComponents(cy *cycle) {
	log := c.cycleLogger(cy)

	renderClock(c.doc, c.opts.Now())
	ticker, err := c.sched.Every(c.opts.UpdateInterval, func() { c.tick(cy) })
	if err != nil {
		log.Error().Err(err).Msg("cannot start clock ticker")
	}
	cy.track(ticker)

	if c.doc.Exists(LocationInfoID) {
		c.inflight.Add(1)
		go c.resolveLocation(cy)
	}

	if c.opts.EnableWeather && c.opts.WeatherKey != "" {
		task, err := c.sched.After(c.opts.WeatherDelay, func() { c.resolveWeather(cy) })
		if err != nil {
			log.Error().Err(err).Msg("cannot schedule weather lookup")
			return
		}
		cy.track(task)
	}
}

func (c *Controller) tick(cy *cycle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cy.closed {
		return
	}
	renderClock(c.doc, c.opts.Now())
}
