package game

func rollWeather(roll float64) Weather {
	switch {
	case roll > 0.95:
		return WeatherGoldenHour
	case roll > 0.85:
		return WeatherStorm
	case roll > 0.60:
		return WeatherRain
	default:
		return WeatherSunny
	}
}

// ChangeWeather re-rolls the weather and reports whether it changed.
func (e *Engine) ChangeWeather() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := rollWeather(e.rand.Float64())
	if next == e.state.Weather {
		return false
	}
	e.state.Weather = next
	e.state.NewsTicker = weatherNews[next]
	kind := ToastInfo
	if weatherTable[next] < 1 {
		kind = ToastWarning
	}
	e.notify(weatherNews[next], kind)
	return true
}

// WeatherMultiplier returns the income multiplier for w.
func WeatherMultiplier(w Weather) float64 {
	if m, ok := weatherTable[w]; ok {
		return m
	}
	return 1
}
