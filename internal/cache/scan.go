package cache

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// scan 遍历根目录下的 .config 文件并载入索引；总量随每次载入累加，
// 与扫描期间的前台写入互不覆盖。
func (s *Store) scan() {
	files, err := os.ReadDir(s.root)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"action": "cache_scan",
			"root":   s.root,
		}).WithError(err).Warn("scan cache root failed")
		return
	}

	var loaded int
	for _, f := range files {
		if !f.Type().IsRegular() {
			continue
		}
		name := f.Name()
		if !strings.HasSuffix(name, configExt) {
			continue
		}
		if _, ok := s.lookup(strings.TrimSuffix(name, configExt)); ok {
			loaded++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"action":  "cache_scan",
		"root":    s.root,
		"loaded":  loaded,
		"entries": s.count.Load(),
		"bytes":   s.size.Load(),
	}).Debug("cache scan finished")
}
