// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads named bar profiles from YAML files.
//
// A profile file looks like this:
//
//	name: build
//	profiles:
//	  default:
//	    width: 40
//	    begin: "["
//	    end: "]"
//	    status: inline
//	    style:
//	      bg: green
//	  steps:
//	    max: 300
//	    fold: complete
//
// Profiles are converted to bar and composite options. Unset fields keep the
// bar defaults.
package config
