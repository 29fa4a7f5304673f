// Package config loads mini.json, the configuration shared by the mini CLI
// commands and the preview server.
//
//	{
//	  "fade": {
//	    "speed": "25ms"
//	  },
//	  "ajax": {
//	    "timeout": "30s",
//	    "format": "json"
//	  },
//	  "preview": {
//	    "host": "localhost",
//	    "port": 7070,
//	    "metricsPath": "/metrics"
//	  },
//	  "log": {
//	    "level": "info",
//	    "noColor": false
//	  }
//	}
//
// Missing fields keep their defaults. Command-line flags override the file.
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
