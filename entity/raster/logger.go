package raster

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "raster")
