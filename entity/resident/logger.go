package resident

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "resident")
