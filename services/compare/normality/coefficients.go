// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package normality

// smallSampleCoefficients holds the Shapiro-Wilk linear coefficients a_i for
// n <= 11, indexed by n. These are the published table values; the Blom
// approximation used for larger n is measurably less accurate down here, so
// the literature constants are used verbatim.
var smallSampleCoefficients = map[int][]float64{
	3:  {0.7071},
	4:  {0.6872, 0.1677},
	5:  {0.6646, 0.2413},
	6:  {0.6431, 0.2806, 0.0875},
	7:  {0.6233, 0.3031, 0.1401},
	8:  {0.6052, 0.3164, 0.1743, 0.0561},
	9:  {0.5888, 0.3244, 0.1976, 0.0947},
	10: {0.5739, 0.3291, 0.2141, 0.1224, 0.0399},
	11: {0.5601, 0.3315, 0.2260, 0.1429, 0.0695},
}
