/*
Package logging configures the zerolog output used by the SDK packages.

The dispatch queue and upload loop log through the zerolog global logger;
Configure replaces it with one built from Config. Applications embedding the
SDK typically call Configure once at startup, or not at all to inherit the
zerolog defaults.
*/
package logging
