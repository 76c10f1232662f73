package render

// Surface binds a native window to the driver. It must be destroyed after
// the logical device and before the instance.
type Surface struct {
	handle SurfaceHandle
}

func CreateSurface(conn *Connection, window Window) (*Surface, error) {
	handle, err := conn.instance.CreateSurface(window)
	if err != nil {
		return nil, Fail(ErrSurfaceCreationFailed, "create surface", err)
	}
	return &Surface{handle: handle}, nil
}

func (s *Surface) Destroy() {
	if s == nil || s.handle == nil {
		return
	}
	s.handle.Destroy()
	s.handle = nil
}
