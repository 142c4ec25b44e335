package domain

// ScreenToScene maps a point on a surface of surfaceW x surfaceH pixels
// (or cells) into scene space through cam. Axes scale independently.
func ScreenToScene(cam Camera, p Position, surfaceW, surfaceH float64) Position {
	if surfaceW <= 0 || surfaceH <= 0 {
		return Position{X: cam.X, Y: cam.Y}
	}
	return Position{
		X: cam.X + p.X*cam.Width/surfaceW,
		Y: cam.Y + p.Y*cam.Height/surfaceH,
	}
}

// SceneToScreen is the inverse of ScreenToScene.
func SceneToScreen(cam Camera, p Position, surfaceW, surfaceH float64) Position {
	if cam.Width <= 0 || cam.Height <= 0 {
		return Position{}
	}
	return Position{
		X: (p.X - cam.X) * surfaceW / cam.Width,
		Y: (p.Y - cam.Y) * surfaceH / cam.Height,
	}
}
