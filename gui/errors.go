package gui

import "github.com/pkg/errors"

// ErrUnavailable is returned by Run in builds without the ebiten tag
var ErrUnavailable = errors.New("the window front end requires building with the 'ebiten' tag")
