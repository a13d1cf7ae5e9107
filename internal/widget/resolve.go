package widget

import "context"

// resolveLocation runs the IP location lookup for cy and renders the result.
// It runs on its own goroutine; c.inflight is incremented by the caller.
func (c *Controller) resolveLocation(cy *cycle) {
	defer c.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.LookupTimeout)
	defer cancel()

	place, err := c.lookups.Locate(ctx)
	c.recorder.LookupFinished(StageLocation, err)

	c.mu.Lock()
	defer c.mu.Unlock()

	log := c.cycleLogger(cy)
	if cy.closed {
		c.recorder.StaleResult(StageLocation)
		log.Debug().Msg("discarding location result from a closed cycle")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("location lookup failed")
		c.finish(LocationInfoID, LocationFailedText)
		return
	}

	cy.city = place.City
	c.finish(LocationInfoID, place.Label())
}

// resolveWeather runs the weather chain for the city resolved in cy. Without
// a resolved city it does nothing.
func (c *Controller) resolveWeather(cy *cycle) {
	c.mu.Lock()
	if cy.closed || cy.weatherStarted {
		c.mu.Unlock()
		return
	}
	cy.weatherStarted = true

	city := cy.city
	log := c.cycleLogger(cy)
	if city == "" || c.opts.WeatherKey == "" || !c.doc.Exists(WeatherInfoID) {
		c.mu.Unlock()
		log.Debug().Msg("weather skipped: no resolved city")
		return
	}
	c.inflight.Add(1)
	c.mu.Unlock()
	defer c.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.LookupTimeout)
	defer cancel()

	cond, err := c.lookups.CurrentForCity(ctx, city)
	c.recorder.LookupFinished(StageWeather, err)

	c.mu.Lock()
	defer c.mu.Unlock()

	if cy.closed {
		c.recorder.StaleResult(StageWeather)
		log.Debug().Msg("discarding weather result from a closed cycle")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("city", city).Msg("weather lookup failed")
		c.finish(WeatherInfoID, WeatherFailedText)
		return
	}
	c.finish(WeatherInfoID, cond.String())
}

// finish writes the final text of a resolver and clears its loading marker.
// Missing elements are ignored. Callers hold c.mu.
func (c *Controller) finish(id, text string) {
	if c.doc.SetText(id, text) {
		c.doc.RemoveClass(id, LoadingClass)
	}
}
